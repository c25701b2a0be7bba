package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/livestock-atlas-go/internal/database"
	"github.com/jengzang/livestock-atlas-go/internal/models"
	"github.com/jengzang/livestock-atlas-go/internal/repository"
	"github.com/jengzang/livestock-atlas-go/internal/source"
)

func writeFixture(t *testing.T) (dir, configPath string) {
	t.Helper()
	dir = t.TempDir()
	snapshot := filepath.Join(dir, "snapshot.json")

	ds := &models.Dataset{
		AllData: []models.RegionRecord{
			{ID: "10", Name: "دمياط", SubName: "شياخة أولى", Measures: map[string]float64{"local_cow_females": 10, "breeders": 2}},
		},
		Summary: []models.RegionRecord{
			{ID: "1", Name: "دمياط", Measures: map[string]float64{"total": 10, "breeders": 2}},
		},
	}
	require.NoError(t, source.WriteSnapshot(snapshot, ds))

	configPath = filepath.Join(dir, "atlas.yaml")
	yaml := fmt.Sprintf(`
log:
  level: error
source:
  kind: file
  snapshot_path: %q
  db_path: %q
cache:
  kind: none
render:
  locale: en
`, snapshot, filepath.Join(dir, "atlas.db"))
	require.NoError(t, os.WriteFile(configPath, []byte(yaml), 0o644))
	return dir, configPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRenderTrendWithoutSource(t *testing.T) {
	_, cfg := writeFixture(t)
	out, err := run(t, "--config", cfg, "render", "trend")
	require.NoError(t, err)

	var chart map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &chart))
	assert.Equal(t, "line", chart["chartType"])
}

func TestRenderCentersFromSnapshot(t *testing.T) {
	_, cfg := writeFixture(t)
	out, err := run(t, "--config", cfg, "render", "centers")
	require.NoError(t, err)

	var payload models.LayerPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "centers", payload.Layer)
}

func TestRenderRejectsUnknownTarget(t *testing.T) {
	_, cfg := writeFixture(t)
	_, err := run(t, "--config", cfg, "render", "volcanoes")
	assert.Error(t, err)
}

func TestRenderCenterNotFound(t *testing.T) {
	_, cfg := writeFixture(t)
	_, err := run(t, "--config", cfg, "render", "center", "--center", "القاهرة")
	assert.Error(t, err)
}

func TestSeedFromSnapshot(t *testing.T) {
	dir, cfg := writeFixture(t)
	_, err := run(t, "--config", cfg, "seed", "--snapshot", filepath.Join(dir, "snapshot.json"))
	require.NoError(t, err)

	db, err := database.Open(database.Config{Path: filepath.Join(dir, "atlas.db")})
	require.NoError(t, err)
	defer db.Close()

	records, err := repository.NewRegionRepository(db).ListRecords(context.Background(), models.CollectionAllData)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "شياخة أولى", records[0].SubName)
}

func TestExportRefusesSelfOverwrite(t *testing.T) {
	_, cfg := writeFixture(t)
	_, err := run(t, "--config", cfg, "export")
	assert.Error(t, err)
}
