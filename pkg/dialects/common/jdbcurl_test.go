// pkg/dialects/common/jdbcurl_test.go
package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJDBCURL(t *testing.T) {
	u, err := ParseJDBCURL(" JDBC:MySQL://db1:3306,db2:3306/nacos?useSSL=false ")
	require.NoError(t, err)
	assert.Equal(t, "mysql", u.Scheme)
	assert.Equal(t, "db1:3306,db2:3306", u.Host)
	assert.Equal(t, "/nacos", u.Path)
	assert.Equal(t, "false", u.Query().Get("useSSL"))

	for _, bad := range []string{"", "jdbc", "mysql://db/nacos", "jdbc://db/nacos"} {
		_, err := ParseJDBCURL(bad)
		assert.Error(t, err, bad)
	}
}

func TestFirstHost(t *testing.T) {
	assert.Equal(t, "db1:3306", FirstHost("db1:3306,db2:3306"))
	assert.Equal(t, "db1", FirstHost("db1"))
	assert.Equal(t, "", FirstHost(""))
}

func TestSplitProperties(t *testing.T) {
	props := SplitProperties(";databaseName=nacos; encrypt = true;;appName")
	assert.Equal(t, map[string]string{
		"databaseName": "nacos",
		"encrypt":      "true",
		"appName":      "",
	}, props)
	assert.Empty(t, SplitProperties(""))
}
