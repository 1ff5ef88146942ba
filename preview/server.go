package preview

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// Flyer is one written flyer as listed by the API.
type Flyer struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

var sequence = regexp.MustCompile(`(\d+)\.png$`)

// List walks finalDir and groups PNG flyers by their directory relative to it ("light/with_payment_data",
// "cuadradas", ...). Flyers in a group are ordered by sequence number.
func List(finalDir string) (map[string][]Flyer, error) {
	groups := map[string][]Flyer{}
	err := filepath.WalkDir(finalDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".png") {
			return nil
		}
		rel, err := filepath.Rel(finalDir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		group := filepath.ToSlash(filepath.Dir(rel))
		groups[group] = append(groups[group], Flyer{
			Name: d.Name(),
			URL:  "/flyers/" + filepath.ToSlash(rel),
			Size: info.Size(),
		})
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return groups, nil
	}
	if err != nil {
		return nil, err
	}
	for _, flyers := range groups {
		sort.SliceStable(flyers, func(i, j int) bool { return seq(flyers[i].Name) < seq(flyers[j].Name) })
	}
	return groups, nil
}

func seq(name string) int {
	m := sequence.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// RegisterRoutes mounts the preview API and the flyer files on r.
func RegisterRoutes(r *gin.Engine, finalDir string) {
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		api.GET("/flyers", func(c *gin.Context) {
			groups, err := List(finalDir)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			count := 0
			for _, g := range groups {
				count += len(g)
			}
			c.JSON(http.StatusOK, gin.H{"count": count, "groups": groups})
		})
	}
	r.StaticFS("/flyers", gin.Dir(finalDir, false))
}

// NewRouter builds the preview engine.
func NewRouter(finalDir string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	RegisterRoutes(r, finalDir)
	return r
}

// Run serves the preview until the listener fails.
func Run(addr, finalDir string) error {
	if _, err := os.Stat(finalDir); err != nil {
		return err
	}
	if err := NewRouter(finalDir).Run(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
