package config

import (
	"io/ioutil"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialize(t *testing.T) {
	tempDir := t.TempDir()
	discard := log.New(ioutil.Discard, "", 0)

	cfg, err := Initialize(tempDir, discard)
	if err != nil {
		t.Fatal(err)
	}
	assert.Nil(t, cfg.Validate())

	// Check that the written config loads back.
	cfg, err = Load(tempDir)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("OpenStartupFile", func(t *testing.T) {
		fd, err := cfg.OpenStartupFile()
		assert.Nil(t, err)
		fd.Close()
	})

	t.Run("Rerun", func(t *testing.T) {
		// A second run keeps existing files rather than clobbering them.
		_, err := Initialize(tempDir, discard)
		assert.Nil(t, err)
	})
}
