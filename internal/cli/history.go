package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"factsift/internal/domain"
)

var (
	historyLimit    int
	historySessions bool
	historyTopic    string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show stored articles and past analysis sessions",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "maximum rows to show (0 uses the default)")
	historyCmd.Flags().BoolVar(&historySessions, "sessions", false, "show analysis sessions instead of articles")
	historyCmd.Flags().StringVar(&historyTopic, "topic", "", "filter articles by topic")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	application, err := buildApp()
	if err != nil {
		return err
	}
	defer application.Close()

	ctx := cmd.Context()

	if historySessions {
		sessions, err := application.Store().RecentSessions(ctx, historyLimit)
		if err != nil {
			return fmt.Errorf("load sessions: %w", err)
		}
		printSessions(cmd, sessions)
		return nil
	}

	var articles []domain.StoredArticle
	if historyTopic != "" {
		articles, err = application.Store().ArticlesByTopic(ctx, historyTopic)
	} else {
		articles, err = application.Store().RecentArticles(ctx, historyLimit)
	}
	if err != nil {
		return fmt.Errorf("load articles: %w", err)
	}

	printStoredArticles(cmd, articles)

	return nil
}

func printSessions(cmd *cobra.Command, sessions []domain.AnalysisSession) {
	if len(sessions) == 0 {
		cmd.Println("No analysis sessions yet.")
		return
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTOPIC\tARTICLES\tFACTS\tMYTHS\tUNCLEAR")
	for _, s := range sessions {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\t%d\n",
			s.ID, s.CreatedAt.Format("2006-01-02 15:04"), s.Topic,
			s.ArticlesFound, s.FactsCount, s.MythsCount, s.UnclearCount)
	}
	_ = w.Flush()
}

func printStoredArticles(cmd *cobra.Command, articles []domain.StoredArticle) {
	if len(articles) == 0 {
		cmd.Println("No stored articles yet.")
		return
	}

	for _, a := range articles {
		title := a.Title
		if title == "" {
			title = domain.DefaultTitle
		}
		cmd.Printf("%s [%s / %s]\n", title, a.Classification, a.FactMythStatus)
		cmd.Printf("  %s\n", a.URL)
		if !a.CreatedAt.IsZero() {
			cmd.Printf("  stored %s\n", a.CreatedAt.Format("2006-01-02 15:04"))
		}
		cmd.Println()
	}
}
