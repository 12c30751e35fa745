// pkg/dialects/mysql/mysql.go
package mysql

import (
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql" // Register driver
	"github.com/pkg/errors"

	"github.com/chmenegatti/dsprovision/pkg/dialects"
	"github.com/chmenegatti/dsprovision/pkg/dialects/common"
)

const defaultPort = "3306"

// Identifiers served by this connector. MariaDB speaks the MySQL protocol,
// so its identifiers map to the same Go driver.
var Identifiers = []string{
	"com.mysql.cj.jdbc.Driver",
	"com.mysql.jdbc.Driver",
	"com.mysql.cj.jdbc.MysqlXADataSource",
	"org.mariadb.jdbc.Driver",
	"org.mariadb.jdbc.MariaDbDataSource",
}

// nativeParams are understood by go-sql-driver/mysql and passed through as is.
var nativeParams = map[string]bool{
	"allowAllFiles": true, "allowCleartextPasswords": true, "allowFallbackToPlaintext": true,
	"allowNativePasswords": true, "allowOldPasswords": true, "charset": true,
	"checkConnLiveness": true, "clientFoundRows": true, "collation": true,
	"columnsWithAlias": true, "interpolateParams": true, "loc": true,
	"maxAllowedPacket": true, "multiStatements": true, "parseTime": true,
	"readTimeout": true, "rejectReadOnly": true, "timeout": true, "tls": true,
	"writeTimeout": true,
}

// Connector turns jdbc:mysql:// and jdbc:mariadb:// URLs into
// go-sql-driver/mysql DSNs.
type Connector struct{}

var _ common.Connector = Connector{}

func (Connector) DriverName() string { return "mysql" }

// DSN maps the JDBC URL onto a mysql.Config. JDBC-only properties with a
// driver equivalent are translated; the rest are dropped.
func (Connector) DSN(cfg common.PoolConfig) (string, error) {
	u, err := common.ParseJDBCURL(cfg.JDBCURL)
	if err != nil {
		return "", err
	}
	if u.Scheme != "mysql" && u.Scheme != "mariadb" {
		return "", errors.Errorf("mysql: unsupported sub-protocol %q", u.Scheme)
	}

	mc := mysql.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = hostPort(common.FirstHost(u.Host))
	mc.DBName = strings.TrimPrefix(u.Path, "/")
	mc.ParseTime = true

	passthrough := url.Values{}
	for key, values := range u.Query() {
		if len(values) == 0 {
			continue
		}
		value := values[len(values)-1]
		switch {
		case nativeParams[key]:
			passthrough.Set(key, value)
		case key == "connectTimeout":
			d, err := millis(value)
			if err != nil {
				return "", errors.Wrap(err, "mysql: connectTimeout")
			}
			mc.Timeout = d
		case key == "socketTimeout":
			d, err := millis(value)
			if err != nil {
				return "", errors.Wrap(err, "mysql: socketTimeout")
			}
			mc.ReadTimeout, mc.WriteTimeout = d, d
		case key == "serverTimezone":
			loc, err := time.LoadLocation(value)
			if err != nil {
				return "", errors.Wrap(err, "mysql: serverTimezone")
			}
			mc.Loc = loc
		case key == "useSSL":
			if b, _ := strconv.ParseBool(value); b {
				mc.TLSConfig = "preferred"
			} else {
				mc.TLSConfig = "false"
			}
		}
	}

	dsn := mc.FormatDSN()
	if len(passthrough) == 0 {
		return dsn, nil
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + passthrough.Encode(), nil
}

func hostPort(host string) string {
	if host == "" {
		return net.JoinHostPort("localhost", defaultPort)
	}
	if _, _, err := net.SplitHostPort(host); err != nil {
		return net.JoinHostPort(strings.Trim(host, "[]"), defaultPort)
	}
	return host
}

func millis(v string) (time.Duration, error) {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Millisecond, nil
}

func init() {
	for _, id := range Identifiers {
		dialects.Register(id, Connector{})
	}
}
