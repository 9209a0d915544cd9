package exporters

import (
	"bytes"
	"log"
	"time"

	"github.com/mrlokans/keep-export/internal/entities"
)

func strPtr(s string) *string {
	return &s
}

func sampleNote() *entities.Note {
	return &entities.Note{
		CreatedAt:  time.Date(2020, time.March, 4, 10, 0, 0, 0, time.UTC),
		Title:      strPtr("X"),
		Body:       "Hello\nWorld",
		Labels:     []string{"work"},
		SourcePath: "Takeout/Keep/X.html",
	}
}

func bufferLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.New(&buf, "", 0), &buf
}
