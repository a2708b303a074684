package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"interview-coach/internal/config"
	"interview-coach/internal/domain"
	"interview-coach/internal/llm"
	applog "interview-coach/internal/logger"
	"interview-coach/internal/repository"
	"interview-coach/internal/service"
)

const (
	actionAnswer   = "Answer"
	actionProgress = "Show progress"
	actionQuit     = "Quit"
)

var errQuit = errors.New("interview aborted")

var (
	flagName        string
	flagCV          string
	flagJobTitle    string
	flagCompany     string
	flagJobDescFile string
)

var rootCmd = &cobra.Command{
	Use:   "cli_interview",
	Short: "Run a mock job interview in the terminal",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context())
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVarP(&flagName, "name", "n", "", "candidate name")
	rootCmd.Flags().StringVar(&flagCV, "cv", "", "path to a plain-text CV")
	rootCmd.Flags().StringVarP(&flagJobTitle, "job-title", "t", "", "target job title")
	rootCmd.Flags().StringVarP(&flagCompany, "company", "c", "", "target company name")
	rootCmd.Flags().StringVar(&flagJobDescFile, "job-description-file", "", "path to a plain-text job description")
	_ = rootCmd.MarkFlagRequired("name")
	_ = rootCmd.MarkFlagRequired("cv")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	// Logs en consola solo en modo debug para no ensuciar la conversacion.
	logger := zap.NewNop()
	if cfg.LogDebug {
		logger, err = applog.New(false, true)
		if err != nil {
			log.Fatalf("creating a logger: %s", err)
		}
	}
	defer logger.Sync()

	cv, err := readTextFile(flagCV)
	if err != nil {
		return fmt.Errorf("read cv: %w", err)
	}
	jobDesc := ""
	if flagJobDescFile != "" {
		if jobDesc, err = readTextFile(flagJobDescFile); err != nil {
			return fmt.Errorf("read job description: %w", err)
		}
	}

	profile, err := domain.NewCandidateProfile(flagName, cv, flagJobTitle, jobDesc, flagCompany)
	if err != nil {
		return err
	}

	gateway := llm.NewGateway(llm.NewFromConfig(ctx, cfg, logger), cfg.LLMTimeout(), logger)
	store := repository.NewMemorySessionStore(0, 0)
	interviews := service.NewInterviewService(store, gateway, nil, logger)

	started, err := interviews.StartSession(ctx, profile)
	if err != nil {
		return err
	}

	fmt.Printf("\n===== Mock interview: %s =====\n", profile.Name)
	question := started.Question
	number := started.QuestionNumber
	phase := started.Phase
	starGuide := false

	for {
		printQuestion(number, phase, question, starGuide)

		answer, err := askAnswer(ctx, interviews, started.SessionID)
		if errors.Is(err, errQuit) {
			fmt.Println("Interview aborted.")
			return nil
		}
		if err != nil {
			return err
		}

		result, err := interviews.SubmitResponse(ctx, started.SessionID, answer, number)
		if err != nil {
			return err
		}
		printEvaluation(result)

		if result.Complete {
			break
		}
		question = result.NextQuestion
		number = result.QuestionNumber
		phase = result.Phase
		starGuide = result.STARGuide
	}

	feedback, err := interviews.Feedback(ctx, started.SessionID)
	if err != nil {
		return err
	}
	fmt.Println("\n===== Feedback =====")
	fmt.Println(feedback)
	return nil
}

func askAnswer(ctx context.Context, interviews *service.InterviewService, sessionID string) (string, error) {
	for {
		menu := promptui.Select{
			Label: "Next step",
			Items: []string{actionAnswer, actionProgress, actionQuit},
		}
		_, choice, err := menu.Run()
		if err != nil {
			return "", err
		}

		switch choice {
		case actionQuit:
			return "", errQuit
		case actionProgress:
			p, err := interviews.Progress(ctx, sessionID)
			if err != nil {
				return "", err
			}
			fmt.Printf("Progress: %d/%d questions, average STAR %.1f, phase %s\n",
				p.QuestionsAsked, p.TotalQuestions, p.AverageSTARScore, p.Phase)
		default:
			input := promptui.Prompt{
				Label: "Your answer",
				Validate: func(s string) error {
					if strings.TrimSpace(s) == "" {
						return domain.ErrEmptyResponse
					}
					return nil
				},
			}
			return input.Run()
		}
	}
}

func printQuestion(number int, phase domain.Phase, question string, starGuide bool) {
	fmt.Printf("\n[%d/%d · %s]\n%s\n", number, domain.TotalQuestions, phase, question)
	if starGuide {
		fmt.Println("Tip: structure your answer as Situation, Task, Action and Result.")
	}
}

func printEvaluation(result service.SubmitResult) {
	eval := result.Evaluation
	fmt.Printf("\nPolished answer:\n%s\n", result.CorrectedResponse)
	fmt.Printf("STAR score: %d/10", eval.Score)
	if len(eval.MissingElements) > 0 {
		missing := make([]string, 0, len(eval.MissingElements))
		for _, m := range eval.MissingElements {
			missing = append(missing, string(m))
		}
		fmt.Printf(" (missing: %s)", strings.Join(missing, ", "))
	}
	fmt.Println()
	for _, s := range eval.Suggestions {
		fmt.Printf("  - %s\n", s)
	}
}

func readTextFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
