// pkg/dialects/sqlserver/sqlserver.go
package sqlserver

import (
	"net"
	"net/url"
	"strings"

	_ "github.com/microsoft/go-mssqldb" // registers "sqlserver"
	"github.com/pkg/errors"

	"github.com/chmenegatti/dsprovision/pkg/dialects"
	"github.com/chmenegatti/dsprovision/pkg/dialects/common"
)

const defaultPort = "1433"

// Connector turns Microsoft (jdbc:sqlserver://) and jTDS
// (jdbc:jtds:sqlserver://) URLs into go-mssqldb URLs.
type Connector struct{}

var _ common.Connector = Connector{}

func (Connector) DriverName() string { return "sqlserver" }

func (Connector) DSN(cfg common.PoolConfig) (string, error) {
	raw := strings.TrimSpace(cfg.JDBCURL)
	lowered := strings.ToLower(raw)

	var (
		hostPart string
		database string
		props    map[string]string
	)
	switch {
	case strings.HasPrefix(lowered, "jdbc:sqlserver://"):
		rest := raw[len("jdbc:sqlserver://"):]
		hostPart, rest, _ = strings.Cut(rest, ";")
		props = lowerKeys(common.SplitProperties(rest))
		database = first(props, "databasename", "database")
	case strings.HasPrefix(lowered, "jdbc:jtds:sqlserver://"):
		rest := raw[len("jdbc:jtds:sqlserver://"):]
		rest, propList, _ := strings.Cut(rest, ";")
		hostPart, database, _ = strings.Cut(rest, "/")
		props = lowerKeys(common.SplitProperties(propList))
	default:
		return "", errors.Errorf("sqlserver: unsupported url %q", cfg.JDBCURL)
	}

	host, instance, _ := strings.Cut(hostPart, `\`)
	if instance == "" {
		instance = first(props, "instancename", "instance")
	}

	query := url.Values{}
	if database != "" {
		query.Set("database", database)
	}
	if v := first(props, "encrypt"); v != "" {
		query.Set("encrypt", v)
	}
	if v := props["ssl"]; v != "" {
		query.Set("encrypt", jtdsEncrypt(v))
	}
	if v := props["trustservercertificate"]; v != "" {
		query.Set("TrustServerCertificate", v)
	}
	if v := first(props, "applicationname", "appname"); v != "" {
		query.Set("app name", v)
	}
	if v := props["logintimeout"]; v != "" {
		query.Set("connection timeout", v)
	}

	out := url.URL{
		Scheme:   "sqlserver",
		Host:     hostPort(host, instance),
		RawQuery: query.Encode(),
	}
	if instance != "" {
		out.Path = "/" + instance
	}
	if cfg.Username != "" || cfg.Password != "" {
		out.User = url.UserPassword(cfg.Username, cfg.Password)
	}
	return out.String(), nil
}

// jtdsEncrypt maps the jTDS "ssl" property onto go-mssqldb's encrypt values.
func jtdsEncrypt(v string) string {
	switch strings.ToLower(v) {
	case "require", "authenticate":
		return "true"
	case "request":
		return "false"
	default:
		return "disable"
	}
}

func hostPort(host, instance string) string {
	if host == "" {
		host = "localhost"
	}
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	if instance != "" {
		// the browser service resolves the port of a named instance
		return host
	}
	return net.JoinHostPort(host, defaultPort)
}

func lowerKeys(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[strings.ToLower(k)] = v
	}
	return out
}

func first(props map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := props[k]; v != "" {
			return v
		}
	}
	return ""
}

func init() {
	dialects.Register("com.microsoft.sqlserver.jdbc.SQLServerDriver", Connector{})
	dialects.Register("com.microsoft.sqlserver.jdbc.SQLServerXADataSource", Connector{})
	dialects.Register("net.sourceforge.jtds.jdbc.Driver", Connector{})
}
