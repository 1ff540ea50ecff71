// Command benjictl runs the ingestion pipeline and one-shot questions.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/benji-blog/benji/internal/config"
	dbredis "github.com/benji-blog/benji/internal/db/redis"
	logpkg "github.com/benji-blog/benji/internal/logger"
	"github.com/benji-blog/benji/internal/metrics"
	"github.com/benji-blog/benji/internal/model"
	"github.com/benji-blog/benji/internal/repository/postcache"
	"github.com/benji-blog/benji/internal/version"
)

// app bundles the lazily-built dependencies shared by the subcommands.
type app struct {
	cfg    config.Config
	logger *zap.Logger

	store *dbredis.Store
	mdl   *model.Model
	cache *postcache.Cache
}

func main() {
	_ = godotenv.Load()

	a := &app{}

	root := &cobra.Command{
		Use:     "benjictl",
		Short:   "Blog post ingestion and semantic search pipeline",
		Version: fmt.Sprintf("%s (%s)", version.Version, version.Commit),
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			env := config.GetEnv()
			cfg, err := config.Load(env)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := logpkg.New(env, cfg.Logging.Level)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			a.cfg = cfg
			a.logger = logger
			metrics.Register()
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.store != nil {
				a.store.Close()
			}
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.AddCommand(
		newDownloadCmd(a),
		newSummarizeCmd(a),
		newVectorizeCmd(a),
		newIndexCmd(a),
		newAskCmd(a),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) openCache() (*postcache.Cache, error) {
	if a.cache != nil {
		return a.cache, nil
	}
	cache, err := postcache.New(a.cfg.Cache.Dir)
	if err != nil {
		return nil, err
	}
	a.cache = cache
	return cache, nil
}

func (a *app) loadModel() (*model.Model, error) {
	if a.mdl != nil {
		return a.mdl, nil
	}
	mdl, err := model.Load(model.Config{
		ArtifactPath:   a.cfg.Model.ArtifactPath,
		VocabularyPath: a.cfg.Model.VocabularyPath,
		StopWordsPath:  a.cfg.Model.StopWordsPath,
		Logger:         a.logger,
	})
	if err != nil {
		return nil, err
	}
	a.mdl = mdl
	return mdl, nil
}

func (a *app) openStore() (*dbredis.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := dbredis.NewStore(dbredis.Config{
		Addrs:    a.cfg.Database.Addrs,
		Username: a.cfg.Database.Username,
		Password: a.cfg.Database.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	a.store = store
	return store, nil
}
