package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Initialize writes a starter configuration into dir. Files that already
// exist are kept so it is safe to run repeatedly.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	fsys := afero.NewBasePathFs(afero.NewOsFs(), dir)
	for _, starter := range []struct {
		name string
		data []byte
	}{
		{ConfigurationName, defaultConfigData},
		{StartupFileName, defaultStartupData},
	} {
		exists, err := afero.Exists(fsys, starter.name)
		if err != nil {
			return nil, err
		}
		if exists {
			logger.Printf("%s already exists, keeping it", starter.name)
			continue
		}

		logger.Printf("writing %s", filepath.Join(dir, starter.name))
		if err := afero.WriteFile(fsys, starter.name, starter.data, 0644); err != nil {
			return nil, err
		}
	}

	return Load(dir)
}
