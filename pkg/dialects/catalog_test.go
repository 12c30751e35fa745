package dialects

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmenegatti/dsprovision/pkg/contract"
)

func TestResolveByURL_EveryPrefix(t *testing.T) {
	for _, d := range Catalog() {
		if d.IsUnknown() {
			continue
		}
		for _, p := range d.URLPrefixes() {
			got, err := ResolveByURL("jdbc:" + p + ":host/db")
			require.NoError(t, err)
			assert.Same(t, d, got, "prefix %q should resolve to %s", p, d)
		}
	}
}

func TestResolveByURL(t *testing.T) {
	tests := []struct {
		url  string
		want *Descriptor
	}{
		{"", Unknown()},
		{"jdbc:nosuchdb://host/db", Unknown()},
		{"jdbc:MySQL://localhost:3306/nacos", MySQL()},
		{"jdbc:mariadb://localhost:3306/nacos", MariaDB()},
		{"jdbc:sap://hana:30015", HANA()},
		{"jdbc:hana://hana:30015", Unknown()},
		{"jdbc:as400://box/lib", DB2AS400()},
		{"jdbc:db2://box:50000/db", DB2()},
		{"jdbc:informix-sqli://host:9088/db", Informix()},
		{"jdbc:informix-direct://db", Informix()},
		{"jdbc:firebirdsql://localhost/db", Firebird()},
		{"jdbc:jtds:sqlserver://host/db", JTDS()},
		{"jdbc:sqlite::memory:", SQLite()},
		{"jdbc:mysql", Unknown()},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := ResolveByURL(tt.url)
			require.NoError(t, err)
			assert.Same(t, tt.want, got)
		})
	}
}

func TestResolveByURL_RequiresScheme(t *testing.T) {
	got, err := ResolveByURL("mysql://localhost:3306/nacos")
	require.Error(t, err)
	assert.True(t, errors.Is(err, contract.ErrViolation))
	assert.Same(t, Unknown(), got)
}

func TestResolveByProductName(t *testing.T) {
	tests := []struct {
		product string
		want    *Descriptor
	}{
		{"", Unknown()},
		{"SQL SERVER", SQLServer()},
		{"sqlserver", SQLServer()},
		{"Sql Server", SQLServer()},
		{"firebird-embedded", Firebird()},
		{"FIREBIRD", Firebird()},
		{"DB2/LINUXX8664", DB2()},
		{"DB2 UDB for AS/400", DB2AS400()},
		{"db2_as400", DB2AS400()},
		{"mysql", MySQL()},
		{"MariaDB", MariaDB()},
		{"HDB", HANA()},
		{"hana", Unknown()},
		{"postgresql", PostgreSQL()},
		{"dameng", Dameng()},
		{"jtds", Unknown()},
		{"cockroach", Unknown()},
	}
	for _, tt := range tests {
		t.Run(tt.product, func(t *testing.T) {
			assert.Same(t, tt.want, ResolveByProductName(tt.product))
		})
	}
}

func TestDescriptorOverrides(t *testing.T) {
	assert.Equal(t, MySQL().ID(), MariaDB().ID(), "MariaDB reports the MySQL id")
	assert.Equal(t, "org.mariadb.jdbc.Driver", MariaDB().DriverClassName())
	assert.Equal(t, "MARIADB", MariaDB().ProductName())

	assert.Equal(t, "db2", DB2AS400().ID())
	assert.Equal(t, []string{"as400"}, DB2AS400().URLPrefixes())
	assert.Equal(t, []string{"sap"}, HANA().URLPrefixes())
	assert.Equal(t, []string{"informix-sqli", "informix-direct"}, Informix().URLPrefixes())
	assert.Equal(t, []string{"postgresql"}, PostgreSQL().URLPrefixes())
	assert.Equal(t, "oracle", Oracle().ID())
}

func TestUnknownHasNoMetadata(t *testing.T) {
	assert.True(t, Unknown().IsUnknown())
	assert.Empty(t, Unknown().ProductName())
	assert.Empty(t, Unknown().DriverClassName())
	assert.Empty(t, Unknown().PoolDriverClassName())
	assert.Empty(t, Unknown().ValidationQuery())
	assert.False(t, Unknown().MatchProductName(""))
}

func TestCatalogOrder(t *testing.T) {
	names := make([]string, 0, len(catalog))
	for _, d := range Catalog() {
		names = append(names, d.Name())
	}
	assert.Equal(t, []string{
		"UNKNOWN", "DERBY", "H2", "HSQLDB", "SQLITE", "MYSQL", "MARIADB", "GAE",
		"ORACLE", "POSTGRESQL", "HANA", "JTDS", "SQLSERVER", "FIREBIRD", "DB2",
		"DB2_AS400", "TERADATA", "INFORMIX", "DAMENG",
	}, names)
}

func TestCatalog_ReturnsCopy(t *testing.T) {
	c := Catalog()
	c[0] = MySQL()
	assert.Same(t, Unknown(), Catalog()[0])

	p := MySQL().URLPrefixes()
	p[0] = "changed"
	assert.Equal(t, []string{"mysql"}, MySQL().URLPrefixes())
}

func TestByName(t *testing.T) {
	d, ok := ByName("db2_as400")
	require.True(t, ok)
	assert.Same(t, DB2AS400(), d)

	_, ok = ByName("nope")
	assert.False(t, ok)
}

func TestAccessorsReturnCatalogEntries(t *testing.T) {
	accessors := []func() *Descriptor{
		Unknown, Derby, H2, HSQLDB, SQLite, MySQL, MariaDB, GAE, Oracle, PostgreSQL,
		HANA, JTDS, SQLServer, Firebird, DB2, DB2AS400, Teradata, Informix, Dameng,
	}
	c := Catalog()
	require.Len(t, accessors, len(c))
	for i, get := range accessors {
		assert.Same(t, c[i], get(), c[i].Name())
		assert.Same(t, get(), get(), "accessors return the same instance")
	}
	assert.True(t, Unknown().IsUnknown())
	assert.Equal(t, "/* ping */ SELECT 1", MySQL().ValidationQuery())
}
