package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	indexrepo "github.com/benji-blog/benji/internal/repository/index"
	"github.com/benji-blog/benji/internal/transport/gpt"
	"github.com/benji-blog/benji/internal/transport/wordpress"
	askuc "github.com/benji-blog/benji/internal/usecase/ask"
	"github.com/benji-blog/benji/internal/usecase/ingest"
	searchuc "github.com/benji-blog/benji/internal/usecase/search"
)

func (a *app) newGpt() *gpt.Client {
	return gpt.New(gpt.Config{
		APIKey:      a.cfg.GPT.APIKey,
		BaseURL:     a.cfg.GPT.BaseURL,
		Model:       a.cfg.GPT.Model,
		Temperature: a.cfg.GPT.Temperature,
		Logger:      a.logger,
	})
}

func newDownloadCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download posts from Wordpress into the cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, err := a.openCache()
			if err != nil {
				return err
			}
			blog := wordpress.New(wordpress.Config{
				Protocol: a.cfg.Wordpress.Protocol,
				Hostname: a.cfg.Wordpress.Hostname,
				Username: a.cfg.Wordpress.Username,
				Password: a.cfg.Wordpress.Password,
				PageSize: a.cfg.Wordpress.PageSize,
				Logger:   a.logger,
			})
			svc := ingest.New(blog, nil, nil, cache, nil, a.logger)
			return svc.Download(cmd.Context(), limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 1000, "maximum number of posts to download")
	return cmd
}

func newSummarizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize",
		Short: "Fill summaries, keywords, and goals of cached posts using GPT",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, err := a.openCache()
			if err != nil {
				return err
			}
			svc := ingest.New(nil, a.newGpt(), nil, cache, nil, a.logger)
			return svc.Summarize(cmd.Context())
		},
	}
}

func newVectorizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "vectorize",
		Short: "Vectorize cached posts, training vectors for unknown terms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, err := a.openCache()
			if err != nil {
				return err
			}
			mdl, err := a.loadModel()
			if err != nil {
				return err
			}
			svc := ingest.New(nil, nil, mdl, cache, nil, a.logger)
			return svc.Vectorize(cmd.Context())
		},
	}
}

func newIndexCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Index cached post vectors in the search index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, err := a.openCache()
			if err != nil {
				return err
			}
			mdl, err := a.loadModel()
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			if err := store.WaitForReady(cmd.Context(),
				time.Duration(a.cfg.Database.ReadinessTimeout)*time.Second); err != nil {
				return err
			}
			index := indexrepo.New(store, a.cfg.Index.Name, mdl.Dim(), a.logger)
			svc := ingest.New(nil, nil, nil, cache, index, a.logger)
			return svc.Index(cmd.Context())
		},
	}
}

func newAskCmd(a *app) *cobra.Command {
	var tokens int
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a question answered from the most relevant posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := a.openCache()
			if err != nil {
				return err
			}
			mdl, err := a.loadModel()
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			if err := store.WaitForReady(cmd.Context(),
				time.Duration(a.cfg.Database.ReadinessTimeout)*time.Second); err != nil {
				return err
			}

			index := indexrepo.New(store, a.cfg.Index.Name, mdl.Dim(), a.logger)
			searchSvc := searchuc.New(index, cache, mdl, a.cfg.Search.Window, a.logger)
			askSvc := askuc.New(searchSvc, a.newGpt(), a.logger)

			result, err := askSvc.Ask(cmd.Context(), args[0], tokens)
			if err != nil {
				return err
			}

			fmt.Println()
			fmt.Println("Question:", result.Question)
			fmt.Println("Answer:", result.Answer)
			for _, p := range result.Posts {
				fmt.Printf("  - %s (%s)\n", p.Title, p.URL)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&tokens, "tokens", 1000, "maximum answer tokens")
	return cmd
}
