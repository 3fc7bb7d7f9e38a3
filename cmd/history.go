package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/fit-scorer/internal/tracker"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and update stored applications",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored applications, newest first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		runHistoryList(cmd)
	},
}

var historyStatusCmd = &cobra.Command{
	Use:   "status ID [STATUS]",
	Short: "Change the status of an application; asks for it when omitted",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(_ *cobra.Command, args []string) {
		runHistoryStatus(args)
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete an application",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runHistoryDelete(cmd, args[0])
	},
}

var historyDemandCmd = &cobra.Command{
	Use:   "demand",
	Short: "Rank the skills job descriptions ask for against the skills in your resumes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		runHistoryDemand(cmd)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyStatusCmd, historyDeleteCmd, historyDemandCmd)

	historyListCmd.Flags().StringP("status", "s", "", "show only applications with this status")
	historyDeleteCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation")
	historyDemandCmd.Flags().IntP("limit", "l", tracker.DefaultDemandLimit, "how many skills to rank")
	historyDemandCmd.Flags().Bool("raw", false, "print the report as JSON")
}

func runHistoryList(cmd *cobra.Command) {
	log, config := setup()
	store := openStore(config, log)
	defer store.Close()

	var status tracker.Status
	if raw, _ := cmd.Flags().GetString("status"); raw != "" {
		var err error
		if status, err = tracker.ParseStatus(raw); err != nil {
			log.Fatal("parsing status", zap.Error(err))
		}
	}

	apps, err := store.List(context.Background(), status)
	if err != nil {
		log.Fatal("listing applications", zap.Error(err))
	}

	log.Debug("listed applications", zap.Int("count", len(apps)))
	writeApplications(os.Stdout, apps)
}

func writeApplications(out io.Writer, apps []*tracker.Application) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tSCORE\tBAND\tTITLE\tCOMPANY\tCREATED")
	for _, app := range apps {
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%s\t%s\t%s\t%s\n",
			app.ID, app.Status, app.Score(), tracker.ScoreBand(app.Score()),
			app.JobTitle, app.Company, app.CreatedAt.Format("2006-01-02"),
		)
	}
	w.Flush()
}

func runHistoryStatus(args []string) {
	log, config := setup()
	store := openStore(config, log)
	defer store.Close()

	ctx := context.Background()
	id := args[0]

	var (
		status tracker.Status
		err    error
	)
	if len(args) == 2 {
		status, err = tracker.ParseStatus(args[1])
	} else {
		status, err = pickStatus()
	}
	if err != nil {
		log.Fatal("choosing status", zap.Error(err))
	}

	app, err := store.UpdateStatus(ctx, id, status)
	if err != nil {
		log.Fatal("updating status", zap.Error(err), zap.String("id", id))
	}

	fields := []zap.Field{zap.String("id", app.ID), zap.String("status", string(app.Status))}
	if app.AppliedAt != nil {
		fields = append(fields, zap.Time("applied_at", *app.AppliedAt))
	}
	log.Info("status updated", fields...)
}

func pickStatus() (tracker.Status, error) {
	items := make([]string, 0, len(tracker.Statuses))
	for _, s := range tracker.Statuses {
		items = append(items, string(s))
	}

	prompt := promptui.Select{
		Label: "Choose a status and press ENTER",
		Items: items,
	}

	_, selected, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return tracker.ParseStatus(selected)
}

func runHistoryDelete(cmd *cobra.Command, id string) {
	log, config := setup()
	store := openStore(config, log)
	defer store.Close()

	ctx := context.Background()

	app, err := store.Get(ctx, id)
	if err != nil {
		log.Fatal("getting application", zap.Error(err), zap.String("id", id))
	}

	if approved, _ := cmd.Flags().GetBool("auto-approve"); !approved {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Delete %q at %q", app.JobTitle, app.Company),
			IsConfirm: true,
		}
		if _, err := prompt.Run(); err != nil {
			if errors.Is(err, promptui.ErrAbort) {
				log.Info("exiting", zap.String("reason", "got no from prompt"))
				return
			}
			log.Fatal("exiting", zap.Error(err))
		}
	}

	if err := store.Delete(ctx, id); err != nil {
		log.Fatal("deleting application", zap.Error(err), zap.String("id", id))
	}

	log.Info("application deleted", zap.String("id", id))
}

func runHistoryDemand(cmd *cobra.Command) {
	log, config := setup()
	store := openStore(config, log)
	defer store.Close()

	apps, err := store.List(context.Background(), "")
	if err != nil {
		log.Fatal("listing applications", zap.Error(err))
	}

	limit, _ := cmd.Flags().GetInt("limit")
	report := tracker.Demand(apps, limit)

	if report.JobsAnalyzed == 0 {
		log.Info("exiting", zap.String("reason", "no analyzed applications yet"))
		return
	}

	log.Info("skill demand",
		zap.Int("jobs_analyzed", report.JobsAnalyzed),
		zap.Int("unique_skills", report.UniqueSkills),
		zap.Int("coverage_percent", report.Coverage),
		zap.String("top_skill", report.TopSkill),
	)

	if raw, _ := cmd.Flags().GetBool("raw"); raw {
		if err := printJSON(report); err != nil {
			log.Fatal("printing report", zap.Error(err))
		}
		return
	}

	writeDemand(os.Stdout, report)
}

func writeDemand(out io.Writer, report tracker.DemandReport) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SKILL\tJOBS\tSHARE\tIN CV")
	for _, s := range report.Skills {
		have := "no"
		if s.Have {
			have = "yes"
		}
		fmt.Fprintf(w, "%s\t%d\t%d%%\t%s\n", s.Skill, s.Count, s.Percent, have)
	}
	w.Flush()

	fmt.Fprintf(out, "\ncoverage: %d%% (%d of top %d)\n", report.Coverage, report.Covered, len(report.Skills))
	if len(report.Missing) > 0 {
		names := make([]string, 0, len(report.Missing))
		for _, s := range report.Missing {
			names = append(names, s.Skill)
		}
		fmt.Fprintf(out, "priority gaps: %s\n", strings.Join(names, ", "))
	}
}
