// Package pathutil manages application file paths and locations
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

const envVar = "ZENBREATH_ENV"

// Paths holds all application path configurations.
type Paths struct {
	appDir         string
	configFileName string
	dbFileName     string
	logFileName    string

	// Computed absolute paths
	configFilePath string
	dbFilePath     string
	logFilePath    string
}

var (
	paths   *Paths
	once    sync.Once
	initErr error
)

// Initialize must be called once at program startup. Setting ZENBREATH_ENV
// suffixes every file name so that separate environments do not share
// state.
func Initialize() error {
	once.Do(func() {
		paths = &Paths{
			appDir:         "zenbreath",
			configFileName: "config.yml",
			dbFileName:     "zenbreath.db",
			logFileName:    "zenbreath.log",
		}

		paths.applyEnvironmentOverrides()
		initErr = paths.computePaths()
	})

	return initErr
}

// Must panics if paths haven't been initialized.
func Must() *Paths {
	if paths == nil {
		panic("pathutil.Initialize() must be called before accessing paths")
	}

	return paths
}

func Dir() string {
	return Must().appDir
}

func ConfigFilePath() string {
	return Must().configFilePath
}

func DBFilePath() string {
	return Must().dbFilePath
}

func LogFilePath() string {
	return Must().logFilePath
}

func (p *Paths) applyEnvironmentOverrides() {
	env := strings.TrimSpace(os.Getenv(envVar))
	if env != "" {
		p.configFileName = fmt.Sprintf("config_%s.yml", env)
		p.dbFileName = fmt.Sprintf("zenbreath_%s.db", env)
		p.logFileName = fmt.Sprintf("zenbreath_%s.log", env)
	}
}

func (p *Paths) computePaths() error {
	var err error

	p.configFilePath, err = xdg.ConfigFile(
		filepath.Join(p.appDir, p.configFileName),
	)
	if err != nil {
		return err
	}

	p.dbFilePath, err = xdg.DataFile(filepath.Join(p.appDir, p.dbFileName))
	if err != nil {
		return err
	}

	p.logFilePath, err = xdg.DataFile(
		filepath.Join(p.appDir, "log", p.logFileName),
	)

	return err
}
