package cors

import (
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// RouteLister reports the routes mounted on a router, e.g. (*gin.Engine).Routes.
type RouteLister func() gin.RoutesInfo

// New returns a CORS middleware for the allowed origins. Allowed methods are read from routes on
// the first request, after every route is registered. A nil routes allows GET only.
func New(allowedOrigins []string, routes RouteLister) gin.HandlerFunc {
	allowAll := len(allowedOrigins) == 0
	originSet := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		originSet[strings.TrimRight(origin, "/")] = struct{}{}
	}

	var (
		once    sync.Once
		methods string
	)

	return func(c *gin.Context) {
		once.Do(func() { methods = AllowedMethods(routes) })

		origin := c.GetHeader("Origin")
		if origin != "" {
			if allowAll || hasOrigin(originSet, origin) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			}
		} else if allowAll {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Vary", "Origin")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", methods)
		c.Writer.Header().Set("Access-Control-Max-Age", "600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// AllowedMethods renders the distinct methods of routes, sorted, with OPTIONS appended.
func AllowedMethods(routes RouteLister) string {
	seen := map[string]struct{}{}
	if routes != nil {
		for _, route := range routes() {
			if route.Method != http.MethodOptions {
				seen[route.Method] = struct{}{}
			}
		}
	}
	if len(seen) == 0 {
		seen[http.MethodGet] = struct{}{}
	}
	methods := make([]string, 0, len(seen)+1)
	for method := range seen {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(append(methods, http.MethodOptions), ", ")
}

func hasOrigin(originSet map[string]struct{}, origin string) bool {
	if len(originSet) == 0 {
		return true
	}

	origin = strings.TrimRight(origin, "/")
	_, ok := originSet[origin]
	return ok
}
