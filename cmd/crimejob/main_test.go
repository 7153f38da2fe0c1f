package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-sif/crimeflow/cluster"
	"github.com/go-sif/crimeflow/errors"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeInput(t *testing.T, dir string) string {
	path := filepath.Join(dir, "crime.csv")
	data := "id,borough,category,filter,severity,x,y\n" +
		"a,b,Theft and Handling,2,3,10,4\n" +
		"a,b,Burglary,2,3,10,4\n" +
		"c,d,Drugs,1,8,1,1\n"
	require.Nil(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func TestRun(t *testing.T) {
	input := writeInput(t, t.TempDir())
	out, err := execute(t, "run", input, "--header-lines", "1", "--backends", "java,spark", "--force", "java")
	require.Nil(t, err)
	require.Contains(t, out, "Found 1 groups:\n2\na b 1 2 3 10 4 2 \n---\n")
	require.Contains(t, out, "on local backend")
}

func TestRunDistributed(t *testing.T) {
	input := writeInput(t, t.TempDir())
	out, err := execute(t, "run", input, "--header-lines", "1", "--backends", "distributed", "--num-workers", "3")
	require.Nil(t, err)
	require.Contains(t, out, "Found 1 groups:")
	require.Contains(t, out, "on distributed backend")
}

func TestRunWithDictionary(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	dict := filepath.Join(dir, "dict.json")
	require.Nil(t, os.WriteFile(dict, []byte(`{"Burglary": 7}`), 0644))
	out, err := execute(t, "run", input, "--header-lines", "1", "--dictionary", dict)
	require.Nil(t, err)
	// theft is unknown to this dictionary, so its code sorts first
	require.Contains(t, out, "a b 0 2 3 10 4 2")
}

func TestRunFromEnvironment(t *testing.T) {
	input := writeInput(t, t.TempDir())
	t.Setenv("CRIMEFLOW_BACKENDS", "local,flink")
	t.Setenv("CRIMEFLOW_HEADER_LINES", "1")
	_, err := execute(t, "run", input)
	require.Equal(t, errors.UnsupportedBackendError{Name: "flink"}, err)
}

func TestRunConfigFile(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	cfg := filepath.Join(dir, "crimejob.yaml")
	require.Nil(t, os.WriteFile(cfg, []byte("header-lines: 1\nbackends: distributed\nshow: 0\n"), 0644))
	out, err := execute(t, "run", input, "--config", cfg)
	require.Nil(t, err)
	require.Contains(t, out, "on distributed backend")
}

func TestRootRequiresRole(t *testing.T) {
	t.Setenv(cluster.NodeTypeEnv, "")
	_, err := execute(t, "input.csv")
	require.NotNil(t, err)
	require.Contains(t, err.Error(), cluster.NodeTypeEnv)

	input := writeInput(t, t.TempDir())
	t.Setenv(cluster.NodeTypeEnv, cluster.CoordinatorRole)
	out, err := execute(t, input, "--header-lines", "1")
	require.Nil(t, err)
	require.Contains(t, out, "Found 1 groups:")
	_, err = execute(t)
	require.NotNil(t, err)
}

func TestStage(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	dst := filepath.Join(dir, "staged", "crime.csv")
	out, err := execute(t, "stage", input, "file://"+dst)
	require.Nil(t, err)
	require.Contains(t, out, "copied")
	staged, err := os.ReadFile(dst)
	require.Nil(t, err)
	original, err := os.ReadFile(input)
	require.Nil(t, err)
	require.Equal(t, original, staged)

	_, err = execute(t, "stage", filepath.Join(dir, "missing.csv"), dst)
	require.NotNil(t, err)
	_, err = execute(t, "stage", input, "s3://bucket/crime.csv")
	require.NotNil(t, err)
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"a:1", "b:2"}, splitList(" a:1, ,b:2,"))
	require.Empty(t, splitList(""))
}
