// Package wire provides dependency injection for the taskgraph CLI.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/spf13/viper"

	cliadapter "github.com/example/taskgraph/internal/adapters/cli"
	"github.com/example/taskgraph/internal/adapters/sqlite"
	"github.com/example/taskgraph/internal/app"
	"github.com/example/taskgraph/internal/config"
	"github.com/example/taskgraph/internal/db"
	"github.com/example/taskgraph/internal/logging"
	"github.com/example/taskgraph/internal/ports/primary"
)

var (
	configFile string
	cfg        *config.Config
	cfgErr     error
	cfgOnce    sync.Once

	database *sql.DB
	reader   *sql.DB
	logger   *logging.Logger

	listService       primary.ListService
	itemService       primary.ItemService
	hierarchyService  primary.HierarchyService
	dependencyService primary.DependencyService
	priorityService   primary.PriorityService
	progressService   primary.ProgressService
	historyService    primary.HistoryService
	initErr           error
	once              sync.Once
)

// SetConfigFile points configuration loading at an explicit file.
// It must be called before the first service is requested.
func SetConfigFile(path string) {
	configFile = path
}

// Config returns the loaded configuration.
func Config() (*config.Config, error) {
	cfgOnce.Do(initConfig)
	return cfg, cfgErr
}

func initConfig() {
	v := viper.New()
	if err := config.Init(v, configFile); err != nil {
		cfgErr = err
		return
	}
	cfg, cfgErr = config.Load(v)
}

// Init builds every service, returning the first error encountered.
// Later service getters reuse the result.
func Init() error {
	once.Do(initServices)
	return initErr
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	c, err := Config()
	if err != nil {
		initErr = err
		return
	}

	logger, err = logging.New(logging.Options{
		File:   c.Log.File,
		Level:  c.Log.Level,
		Format: c.Log.Format,
	})
	if err != nil {
		initErr = err
		return
	}

	database, err = db.Open(c.DB.Path)
	if err != nil {
		initErr = fmt.Errorf("failed to initialize database: %w", err)
		return
	}

	store := sqlite.NewStore(database)
	if c.DB.Path != db.MemoryPath {
		reader, err = db.OpenReader(c.DB.Path)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize database: %w", err)
			return
		}
		store = sqlite.NewStoreWithReader(database, reader)
	}
	opts := app.Options{
		Limits: app.Limits{
			MaxDependencyDepth: c.Limits.MaxDependencyDepth,
			MaxHierarchyDepth:  c.Limits.MaxHierarchyDepth,
		},
		Logger: logger,
	}

	listService = app.NewListService(store, opts)
	itemService = app.NewItemService(store, opts)
	hierarchyService = app.NewHierarchyService(store, opts)
	dependencyService = app.NewDependencyService(store, opts)
	priorityService = app.NewPriorityService(store, opts)
	progressService = app.NewProgressService(store, opts)
	historyService = app.NewHistoryService(store, opts)
}

func mustInit() {
	if err := Init(); err != nil {
		log.Fatalf("failed to initialize taskgraph: %v", err)
	}
}

// Close releases the database pools and the log file, if they were opened.
func Close() error {
	var firstErr error
	if reader != nil {
		firstErr = reader.Close()
	}
	if database != nil {
		if err := database.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if logger != nil {
		if err := logger.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ListService returns the singleton ListService instance.
func ListService() primary.ListService {
	mustInit()
	return listService
}

// ItemService returns the singleton ItemService instance.
func ItemService() primary.ItemService {
	mustInit()
	return itemService
}

// HierarchyService returns the singleton HierarchyService instance.
func HierarchyService() primary.HierarchyService {
	mustInit()
	return hierarchyService
}

// DependencyService returns the singleton DependencyService instance.
func DependencyService() primary.DependencyService {
	mustInit()
	return dependencyService
}

// PriorityService returns the singleton PriorityService instance.
func PriorityService() primary.PriorityService {
	mustInit()
	return priorityService
}

// ProgressService returns the singleton ProgressService instance.
func ProgressService() primary.ProgressService {
	mustInit()
	return progressService
}

// HistoryService returns the singleton HistoryService instance.
func HistoryService() primary.HistoryService {
	mustInit()
	return historyService
}

// ListAdapter returns a new ListAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func ListAdapter() *cliadapter.ListAdapter {
	return ListAdapterWithOutput(os.Stdout)
}

// ListAdapterWithOutput returns a new ListAdapter writing to the given output.
func ListAdapterWithOutput(out io.Writer) *cliadapter.ListAdapter {
	return cliadapter.NewListAdapter(ListService(), out)
}

// ItemAdapter returns a new ItemAdapter writing to stdout.
func ItemAdapter() *cliadapter.ItemAdapter {
	return ItemAdapterWithOutput(os.Stdout)
}

// ItemAdapterWithOutput returns a new ItemAdapter writing to the given output.
func ItemAdapterWithOutput(out io.Writer) *cliadapter.ItemAdapter {
	return cliadapter.NewItemAdapter(ItemService(), HierarchyService(), out)
}

// DependencyAdapter returns a new DependencyAdapter writing to stdout.
func DependencyAdapter() *cliadapter.DependencyAdapter {
	return DependencyAdapterWithOutput(os.Stdout)
}

// DependencyAdapterWithOutput returns a new DependencyAdapter writing to the given output.
func DependencyAdapterWithOutput(out io.Writer) *cliadapter.DependencyAdapter {
	return cliadapter.NewDependencyAdapter(DependencyService(), out)
}

// ProgressAdapter returns a new ProgressAdapter writing to stdout.
func ProgressAdapter() *cliadapter.ProgressAdapter {
	return ProgressAdapterWithOutput(os.Stdout)
}

// ProgressAdapterWithOutput returns a new ProgressAdapter writing to the given output.
func ProgressAdapterWithOutput(out io.Writer) *cliadapter.ProgressAdapter {
	return cliadapter.NewProgressAdapter(PriorityService(), ProgressService(), HistoryService(), out)
}
