package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/fit-scorer/internal/headhunter"
	"github.com/spigell/fit-scorer/internal/logger"
	"github.com/spigell/fit-scorer/internal/secrets"
	"github.com/spigell/fit-scorer/internal/suitability"
	"github.com/spigell/fit-scorer/internal/tracker"
)

type vacancyScore struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Employer string              `json:"employer"`
	URL      string              `json:"url,omitempty"`
	Band     tracker.Band        `json:"band"`
	Result   *suitability.Result `json:"result"`
}

var vacancyCmd = &cobra.Command{
	Use:   "vacancy ID",
	Short: "Import a vacancy from hh.ru, print it or score a candidate profile against it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runVacancy(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(vacancyCmd)

	vacancyCmd.Flags().StringP("profile", "p", "", "a candidate profile JSON file to score against the vacancy")
	vacancyCmd.Flags().Bool("save", false, "store the scored vacancy in the application history")
	vacancyCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before saving")
}

func runVacancy(cmd *cobra.Command, id string) {
	ctx := context.Background()
	log, config := setup()

	hh, err := newHeadhunter(config.Headhunter, log)
	if err != nil {
		log.Fatal("preparing hh.ru client", zap.Error(err))
	}

	vacancy, err := hh.GetVacancy(ctx, id)
	if err != nil {
		log.Fatal("getting vacancy", zap.Error(err), zap.String("vacancy_id", id))
	}

	log.Info("got vacancy",
		zap.String("vacancy_id", vacancy.ID),
		zap.String("vacancy_name", vacancy.Name),
		zap.Strings("key_skills", vacancy.Skills()),
	)

	description, err := vacancy.PlainDescription()
	if err != nil {
		log.Warn("rendering vacancy description", zap.Error(err))
	}

	profileFile, _ := cmd.Flags().GetString("profile")
	if profileFile == "" {
		fmt.Printf("%s / %s\n%s\n\n%s\n", vacancy.Name, vacancy.Employer.Name, vacancy.AlternateURL, description)
		return
	}

	profile, err := readProfile(profileFile)
	if err != nil {
		log.Fatal("reading profile", zap.Error(err), zap.String("file", profileFile))
	}

	requirements := vacancy.Requirements()
	if len(requirements.RequiredSkills) == 0 {
		log.Warn("vacancy lists no key skills; the skills score is trivially full",
			zap.String("vacancy_id", vacancy.ID))
	}

	result := newCalculator(config, log).Calculate(profile, requirements, config.Weights.Partial(), nil)
	log.Info("vacancy scored", logger.ResultFields(result)...)

	if err := printJSON(vacancyScore{
		ID:       vacancy.ID,
		Name:     vacancy.Name,
		Employer: vacancy.Employer.Name,
		URL:      vacancy.AlternateURL,
		Band:     tracker.ScoreBand(result.OverallScore),
		Result:   result,
	}); err != nil {
		log.Fatal("printing results", zap.Error(err))
	}

	if save, _ := cmd.Flags().GetBool("save"); !save {
		return
	}

	approved, _ := cmd.Flags().GetBool("auto-approve")
	application := &tracker.Application{
		JobTitle:       vacancy.Name,
		Company:        vacancy.Employer.Name,
		Location:       vacancy.Area.Name,
		Channel:        tracker.ChannelCompanyPortal,
		ResumeName:     profileFile,
		JobDescription: description,
		JDKeywords:     requirements.RequiredSkills,
		CVKeywords:     profile.Skills,
		Result:         result,
	}

	if err := saveApplication(ctx, config, log, application, approved); err != nil {
		if errors.Is(err, errSkipped) {
			log.Info("application is not saved", zap.String("reason", "got no from prompt"))
			return
		}
		log.Fatal("saving application", zap.Error(err))
	}
}

func newHeadhunter(cfg *HeadhunterConfig, log *zap.Logger) (*headhunter.Client, error) {
	token := ""
	if file := strings.TrimSpace(cfg.TokenFile); file != "" {
		var err error
		token, err = secrets.Load(secrets.Source{Name: "headhunter token", File: file})
		if err != nil {
			return nil, err
		}
	}

	hh := headhunter.New(log, token)
	if cfg.UserAgent != "" {
		hh.UserAgent = cfg.UserAgent
	}
	if cfg.APIURL != "" {
		hh.APIURL = cfg.APIURL
	}
	return hh, nil
}
