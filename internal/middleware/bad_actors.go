package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

var suspiciousPathFragments = []string{
	".env", "diagnostics", "ports", "console",
	"php", "login", "mysql", "cgi-bin", "index.jsp",
	"download", "powershell", "favicon.ico", "format=json", "actuator",
	"geoserver", "goform", "luci", "set_limitclient_cfg", "manager", "wp-login.php",
	"wp-admin", "xmlrpc.php", "config.php", "passwd", "shadow", "backup", "secret",
	"usernames", "passwords", "confidential", "private", "bin/bash", "bin/sh",
	"cmd.exe", "administrator", "shell", "exec", "command", "query", "select",
	"insert", "delete", "update", "drop", "alter", "union", "concat", "password",
	"ftp", "tftp", "smb", "rpcbind", "bconsole", "tomcat", "manager/html", "web-console", "login.do",
}

// BlockBadActorsMiddleware rejects scanner requests for paths this service
// never serves. Matching is case-insensitive on the URL path.
func BlockBadActorsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestPath := strings.ToLower(c.Request.URL.Path)

		suspicious := lo.ContainsBy(suspiciousPathFragments, func(fragment string) bool {
			return strings.Contains(requestPath, fragment)
		})
		if suspicious {
			c.AbortWithStatusJSON(403, gin.H{"code": "FORBIDDEN", "error": "Forbidden"})
			return
		}
		c.Next()
	}
}
