package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zefrenchwan/lineage.git/kinship"
	"github.com/zefrenchwan/lineage.git/people"
)

const testRequest = `{"requestId": "r1", "rootPersonId": 10, "familyMap": [[10, {"Father": 3}], [3, {"Gender": "Male"}]]}`

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	output := new(bytes.Buffer)
	rootCmd.SetOut(output)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return output.String(), err
}

func TestRelateJson(t *testing.T) {
	file := filepath.Join(t.TempDir(), "family.json")
	require.NoError(t, os.WriteFile(file, []byte(testRequest), 0o600))

	output, err := runCommand(t, "relate", "--input", file, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, output, `"full": "father"`)
	assert.Contains(t, output, `"requestId": "r1"`)
}

func TestRelateYaml(t *testing.T) {
	rootCmd.SetIn(strings.NewReader(testRequest))
	output, err := runCommand(t, "relate", "--input", "-", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, output, "full: father")
	assert.Contains(t, output, "type: completed")
}

func TestRelateErrors(t *testing.T) {
	_, err := runCommand(t, "relate", "--input", filepath.Join(t.TempDir(), "missing.json"), "--format", "json")
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "family.json")
	require.NoError(t, os.WriteFile(file, []byte(testRequest), 0o600))
	_, err = runCommand(t, "relate", "--input", file, "--format", "xml")
	assert.Error(t, err)
}

func TestAncestorsWithoutDatabase(t *testing.T) {
	previous := settings.DatabaseUrl
	settings.DatabaseUrl = ""
	defer func() { settings.DatabaseUrl = previous }()

	_, err := runCommand(t, "ancestors", "--root", "10", "--db", "")
	assert.Error(t, err)
}

// familyLoader serves profiles from memory
type familyLoader map[int]people.Record

func (f familyLoader) LoadProfiles(ctx context.Context, ids []int) ([]people.Record, error) {
	result := make([]people.Record, 0, len(ids))
	for _, id := range ids {
		if record, found := f[id]; found {
			result = append(result, record)
		}
	}

	return result, nil
}

func TestRelateLoadedFamily(t *testing.T) {
	loader := familyLoader{
		10: {Id: 10, Father: 20, Mother: 30},
		20: {Id: 20, Gender: "Male", Father: 40, Children: people.Relatives{
			{Id: 10, Father: 20, Mother: 30},
			{Id: 11, Father: 20, Mother: 30, Gender: "Female"},
		}},
		30: {Id: 30, Gender: "Female"},
		40: {Id: 40, Gender: "Male"},
	}

	response, err := relateLoadedFamily(context.Background(), loader, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, kinship.RESPONSE_COMPLETED, response.Type)

	labels := make(map[int]string)
	for _, result := range response.Results {
		require.True(t, result.Found(), "person %d", result.PersonId)
		labels[result.PersonId] = result.Relationship.Full
	}

	assert.Equal(t, map[int]string{11: "sister", 20: "father", 30: "mother"}, labels)

	_, err = relateLoadedFamily(context.Background(), loader, 99, 2)
	assert.Error(t, err)
}

func TestRelateFromDatabaseWithoutDatabase(t *testing.T) {
	_, err := runCommand(t, "relate", "--root", "10", "--depth", "3", "--db", "")
	assert.Error(t, err)
	relateDepth = 0
	rootPersonId = 0
}
