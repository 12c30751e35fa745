// cmd/dsprovision/main_test.go
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs root with args and captures its output.
func executeCommand(root *cobra.Command, args ...string) (string, string, error) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	cfgFile, metricsAddr, selectMaster, showRegistered = "", "", false, false
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestResolveURLCommand(t *testing.T) {
	stdout, _, err := executeCommand(rootCmd, "resolve", "url", "jdbc:mysql://localhost:3306/nacos")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Dialect:          MYSQL")
	assert.Contains(t, stdout, "Validation query: /* ping */ SELECT 1")
	assert.Contains(t, stdout, "Loadable driver:  com.mysql.cj.jdbc.Driver")
}

func TestResolveURLCommand_NotJDBC(t *testing.T) {
	_, _, err := executeCommand(rootCmd, "resolve", "url", "mysql://localhost/nacos")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contract violation")
}

func TestResolveProductCommand(t *testing.T) {
	stdout, _, err := executeCommand(rootCmd, "resolve", "product", "SQL Server")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Dialect:          SQLSERVER")

	stdout, _, err = executeCommand(rootCmd, "resolve", "product", "CockroachDB")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Dialect:          UNKNOWN")
	assert.Contains(t, stdout, "Loadable driver:  none")
}

func TestResolveCommandErrors(t *testing.T) {
	_, stderr, err := executeCommand(rootCmd, "resolve", "url")
	assert.Error(t, err)
	assert.Contains(t, stderr, "accepts 1 arg(s), received 0")
}

func TestDialectsCommand(t *testing.T) {
	stdout, _, err := executeCommand(rootCmd, "dialects", "--registered")
	require.NoError(t, err)
	assert.Contains(t, stdout, "DB2_AS400")
	assert.Contains(t, stdout, "informix-sqli,informix-direct")
	assert.NotContains(t, stdout, "UNKNOWN")
	assert.Contains(t, stdout, "Registered drivers:")
	assert.Contains(t, stdout, "org.sqlite.JDBC")
	assert.Contains(t, stdout, "net.sourceforge.jtds.jdbc.Driver")
}

func TestProvisionCommand_SQLite(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "dsprovision.yaml")
	content := fmt.Sprintf(`
db:
  num: 2
  url:
    - jdbc:sqlite:%s
    - jdbc:sqlite:%s
  user: [nacos]
  password: [nacos]
  platform: sqlite
logging:
  level: disabled
`, filepath.Join(dir, "a.db"), filepath.Join(dir, "b.db"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	stdout, _, err := executeCommand(rootCmd, "provision", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "(org.sqlite.JDBC)")
	assert.Contains(t, stdout, "Data source 0: UP")
	assert.Contains(t, stdout, "Data source 1: UP")
}

func TestProvisionCommand_InvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "dsprovision.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("db:\n  platform: mysql\n"), 0o644))

	_, _, err := executeCommand(rootCmd, "provision", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error loading configuration")
}
