package cli

import (
	"archive/zip"
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleNoteHTML = `<html><head><title>X</title></head><body>
<div class="heading">03/04/2020 10:00:00</div>
<div class="content">Hello<br/>World</div>
<div class="labels"><span class="label">work</span></div>
</body></html>`

func writeTakeout(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	out, err := os.Create(path)
	require.NoError(t, err)
	defer out.Close()

	writer := zip.NewWriter(out)
	for name, content := range files {
		entry, err := writer.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
}

func newTestExportCommand(t *testing.T, takeout string) (*ExportCommand, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	cmd := NewExportCommand()
	cmd.TakeoutPath = takeout
	cmd.Exporter = "text"
	cmd.Encoding = "utf-8"
	cmd.Timezone = "UTC"
	cmd.DatabasePath = ""
	cmd.Output = &bytes.Buffer{}
	cmd.Logger = log.New(&logs, "", 0)
	return cmd, &logs
}
