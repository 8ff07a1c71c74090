package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/haierkeys/fast-note-ai-service/internal/dto"
	"github.com/haierkeys/fast-note-ai-service/pkg/code"
	"github.com/haierkeys/fast-note-ai-service/pkg/validator"

	"github.com/gin-gonic/gin/binding"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [-c config_file] [-l language] [text...]",
	Short: "Turn free-form text into a note and print it as JSON",
	Long: `Turn free-form text into a structured note with the configured language model,
store it and print the result as JSON.

The text is taken from the arguments, or from stdin when no argument is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		language, _ := cmd.Flags().GetString("language")

		input := strings.Join(args, " ")
		if len(args) == 0 {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			input = string(raw)
		}

		params := &dto.NaturalLanguageRequest{
			UserInput:      strings.TrimSpace(input),
			OutputLanguage: language,
		}
		if params.UserInput == "" {
			return code.ErrorUserInputEmpty
		}
		if _, err := validator.InitGinValidator(); err != nil {
			return err
		}
		if err := binding.Validator.ValidateStruct(params); err != nil {
			return code.ErrorInvalidParams.WithDetails(err.Error())
		}

		a, err := newAppWithConfig(configPath)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
			defer cancel()
			_ = a.Shutdown(ctx)
		}()

		if !a.LLMEnabled() {
			return code.ErrorCompletionNotConfig
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), a.Config().GetContextTimeout())
		defer cancel()

		res, err := a.IngestService.Ingest(ctx, params)
		if err != nil {
			if c, ok := err.(*code.Code); ok && c.HaveDetails() {
				return fmt.Errorf("%s: %s", c.Msg(), strings.Join(c.Details(), "; "))
			}
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringP("config", "c", "", "config file path")
	ingestCmd.Flags().StringP("language", "l", "", "output language of the generated note")
}
