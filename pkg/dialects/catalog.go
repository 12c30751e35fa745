// pkg/dialects/catalog.go
package dialects

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/chmenegatti/dsprovision/pkg/contract"
)

// urlScheme is the literal every resolvable connection URL starts with.
const urlScheme = "jdbc"

// Descriptor describes one relational dialect: how to recognise it from a
// JDBC URL or a product name, and which driver metadata it implies.
// Descriptors are created once in the catalog below and never mutated.
type Descriptor struct {
	name                string
	id                  string
	productName         string
	driverClassName     string
	poolDriverClassName string
	validationQuery     string
	urlPrefixes         []string

	// matchExtra is OR'd with the default product-name predicate. It
	// receives the candidate exactly as given.
	matchExtra func(candidate string) bool
}

// Name returns the catalog constant, e.g. "DB2_AS400".
func (d *Descriptor) Name() string { return d.name }

// ID returns the canonical lowercase identifier. Two dialects may share one:
// MARIADB reports "mysql" and DB2_AS400 reports "db2".
func (d *Descriptor) ID() string {
	if d.id != "" {
		return d.id
	}
	return lower(d.name)
}

// ProductName returns the database-reported product name, or "".
func (d *Descriptor) ProductName() string { return d.productName }

// DriverClassName returns the JDBC driver identifier, or "". For the MySQL
// family it may hold several comma-separated candidates.
func (d *Descriptor) DriverClassName() string { return d.driverClassName }

// PoolDriverClassName returns the pooling/XA driver identifier, or "".
func (d *Descriptor) PoolDriverClassName() string { return d.poolDriverClassName }

// ValidationQuery returns the dialect's liveness probe, or "" when the
// driver's default probe should be used.
func (d *Descriptor) ValidationQuery() string { return d.validationQuery }

// URLPrefixes returns the prefixes matched against the URL's scheme-specific
// part. Defaults to the lowercased name.
func (d *Descriptor) URLPrefixes() []string {
	if len(d.urlPrefixes) > 0 {
		return append([]string(nil), d.urlPrefixes...)
	}
	return []string{lower(d.name)}
}

// IsUnknown reports whether d is the UNKNOWN descriptor.
func (d *Descriptor) IsUnknown() bool { return d == unknown }

// MatchProductName reports whether candidate names this dialect.
func (d *Descriptor) MatchProductName(candidate string) bool {
	if d.productName != "" && strings.EqualFold(d.productName, candidate) {
		return true
	}
	return d.matchExtra != nil && d.matchExtra(candidate)
}

func (d *Descriptor) String() string { return d.name }

// Catalog entries. The order of the catalog slice is the resolution
// tie-break and must not change.
var (
	unknown = &Descriptor{name: "UNKNOWN"}

	derby = &Descriptor{
		name: "DERBY", productName: "DERBY",
		driverClassName:     "org.apache.derby.jdbc.EmbeddedDriver",
		poolDriverClassName: "org.apache.derby.jdbc.EmbeddedXADataSource",
		validationQuery:     "SELECT 1 FROM SYSIBM.SYSDUMMY1",
	}

	h2 = &Descriptor{
		name: "h2", productName: "h2",
		driverClassName:     "org.h2.Driver",
		poolDriverClassName: "org.h2.jdbcx.JdbcDataSource",
		validationQuery:     "SELECT 1",
	}

	hsqldb = &Descriptor{
		name: "hsqldb", productName: "hsqldb",
		driverClassName:     "org.hsqldb.jdbc.JDBCDriver",
		poolDriverClassName: "org.hsqldb.jdbc.pool.JDBCXADataSource",
		validationQuery:     "SELECT COUNT(*) FROM INFORMATION_SCHEMA.SYSTEM_USERS",
	}

	sqlite = &Descriptor{
		name: "SQLITE", productName: "SQLITE",
		driverClassName: "org.sqlite.JDBC",
	}

	// The MySQL entry lists the modern connector first and the legacy one second.
	mysql = &Descriptor{
		name: "MYSQL", productName: "MYSQL",
		driverClassName:     "com.mysql.cj.jdbc.Driver,com.mysql.jdbc.Driver",
		poolDriverClassName: "com.mysql.cj.jdbc.MysqlXADataSource",
		validationQuery:     "/* ping */ SELECT 1",
	}

	mariadb = &Descriptor{
		name: "MARIADB", id: "mysql", productName: "MARIADB",
		driverClassName:     "org.mariadb.jdbc.Driver",
		poolDriverClassName: "org.mariadb.jdbc.MariaDbDataSource",
		validationQuery:     "SELECT 1",
	}

	gae = &Descriptor{
		name:            "gae",
		driverClassName: "com.google.appengine.api.rdbms.AppEngineDriver",
	}

	oracle = &Descriptor{
		name: "ORACLE", productName: "ORACLE",
		driverClassName:     "oracle.jdbc.OracleDriver",
		poolDriverClassName: "oracle.jdbc.xa.client.OracleXADataSource",
		validationQuery:     "SELECT 'Hello' from DUAL",
	}

	postgresql = &Descriptor{
		name: "POSTGRESQL", productName: "POSTGRESQL",
		driverClassName:     "org.postgresql.Driver",
		poolDriverClassName: "org.postgresql.xa.PGXADataSource",
		validationQuery:     "SELECT 1",
	}

	hana = &Descriptor{
		name: "hana", productName: "HDB",
		driverClassName:     "com.sap.db.jdbc.Driver",
		poolDriverClassName: "com.sap.db.jdbcext.XADataSourceSAP",
		validationQuery:     "SELECT 1 FROM SYS.DUMMY",
		urlPrefixes:         []string{"sap"},
	}

	// jTDS serves several databases, so it has no product name of its own.
	jtds = &Descriptor{
		name:            "jtds",
		driverClassName: "net.sourceforge.jtds.jdbc.Driver",
	}

	sqlServer = &Descriptor{
		name: "SQLSERVER", productName: "SQLSERVER",
		driverClassName:     "com.microsoft.sqlserver.jdbc.SQLServerDriver",
		poolDriverClassName: "com.microsoft.sqlserver.jdbc.SQLServerXADataSource",
		validationQuery:     "SELECT 1",
		matchExtra: func(candidate string) bool {
			return strings.EqualFold("SQL SERVER", candidate)
		},
	}

	firebird = &Descriptor{
		name: "FIREBIRD", productName: "FIREBIRD",
		driverClassName:     "org.firebirdsql.jdbc.FBDriver",
		poolDriverClassName: "org.firebirdsql.ds.FBXADataSource",
		validationQuery:     "SELECT 1 FROM RDB$DATABASE",
		urlPrefixes:         []string{"firebirdsql"},
		matchExtra: func(candidate string) bool {
			return strings.HasPrefix(lower(candidate), "firebird")
		},
	}

	db2 = &Descriptor{
		name: "db2", productName: "db2",
		driverClassName:     "com.ibm.db2.jcc.DB2Driver",
		poolDriverClassName: "com.ibm.db2.jcc.DB2XADataSource",
		validationQuery:     "SELECT 1 FROM SYSIBM.SYSDUMMY1",
		matchExtra: func(candidate string) bool {
			return strings.HasPrefix(lower(candidate), "db2/")
		},
	}

	db2AS400 = &Descriptor{
		name: "DB2_AS400", id: "db2", productName: "DB2_AS400",
		driverClassName:     "com.ibm.as400.access.AS400JDBCDriver",
		poolDriverClassName: "com.ibm.as400.access.AS400JDBCXADataSource",
		validationQuery:     "SELECT 1 FROM SYSIBM.SYSDUMMY1",
		urlPrefixes:         []string{"as400"},
		matchExtra: func(candidate string) bool {
			return strings.Contains(lower(candidate), "as/400")
		},
	}

	teradata = &Descriptor{
		name: "TERADATA", productName: "TERADATA",
		driverClassName: "com.teradata.jdbc.TeraDriver",
	}

	informix = &Descriptor{
		name: "INFORMIX", productName: "INFORMIX",
		driverClassName: "com.informix.jdbc.IfxDriver",
		validationQuery: "select count(*) from systables",
		urlPrefixes:     []string{"informix-sqli", "informix-direct"},
	}

	dameng = &Descriptor{
		name: "DAMENG", productName: "DAMENG",
		driverClassName: "dm.jdbc.driver.DmDriver",
		validationQuery: "select 1",
	}
)

var catalog = []*Descriptor{
	unknown,
	derby,
	h2,
	hsqldb,
	sqlite,
	mysql,
	mariadb,
	gae,
	oracle,
	postgresql,
	hana,
	jtds,
	sqlServer,
	firebird,
	db2,
	db2AS400,
	teradata,
	informix,
	dameng,
}

// Descriptor accessors. The entries themselves are unexported so that no
// caller can rebind them.
func Unknown() *Descriptor    { return unknown }
func Derby() *Descriptor      { return derby }
func H2() *Descriptor         { return h2 }
func HSQLDB() *Descriptor     { return hsqldb }
func SQLite() *Descriptor     { return sqlite }
func MySQL() *Descriptor      { return mysql }
func MariaDB() *Descriptor    { return mariadb }
func GAE() *Descriptor        { return gae }
func Oracle() *Descriptor     { return oracle }
func PostgreSQL() *Descriptor { return postgresql }
func HANA() *Descriptor       { return hana }
func JTDS() *Descriptor       { return jtds }
func SQLServer() *Descriptor  { return sqlServer }
func Firebird() *Descriptor   { return firebird }
func DB2() *Descriptor        { return db2 }
func DB2AS400() *Descriptor   { return db2AS400 }
func Teradata() *Descriptor   { return teradata }
func Informix() *Descriptor   { return informix }
func Dameng() *Descriptor     { return dameng }

// Catalog returns every descriptor in resolution order, UNKNOWN first.
func Catalog() []*Descriptor {
	return append([]*Descriptor(nil), catalog...)
}

// ByName returns the descriptor for a catalog constant such as "MYSQL".
// The lookup is case-insensitive.
func ByName(name string) (*Descriptor, bool) {
	for _, d := range catalog {
		if strings.EqualFold(d.name, strings.TrimSpace(name)) {
			return d, true
		}
	}
	return nil, false
}

// ResolveByURL finds the dialect for a JDBC URL of the form
// jdbc:<prefix>:rest. An empty URL or an unmatched prefix yields UNKNOWN.
// A non-empty URL that does not start with "jdbc" is a contract violation.
func ResolveByURL(url string) (*Descriptor, error) {
	if url == "" {
		return unknown, nil
	}
	if !strings.HasPrefix(url, urlScheme) {
		return unknown, contract.Violation("URL must start with '%s': %q", urlScheme, url)
	}
	rest := lower(url[len(urlScheme):])
	for _, d := range catalog {
		if d == unknown {
			continue
		}
		for _, prefix := range d.URLPrefixes() {
			if strings.HasPrefix(rest, ":"+prefix+":") {
				return d, nil
			}
		}
	}
	return unknown, nil
}

// ResolveByProductName finds the dialect whose product-name predicate accepts
// productName. An empty name or no match yields UNKNOWN.
func ResolveByProductName(productName string) *Descriptor {
	if productName == "" {
		return unknown
	}
	candidate := cases.Upper(language.English).String(productName)
	for _, d := range catalog {
		if d.MatchProductName(candidate) {
			return d
		}
	}
	return unknown
}

// lower folds s with English rules so results never depend on the host locale.
func lower(s string) string {
	return cases.Lower(language.English).String(s)
}
