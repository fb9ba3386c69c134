package cmd

import (
	"fmt"

	"painpredict/ml"

	"github.com/spf13/cobra"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Compute both pain probabilities for one patient",
	Example: `  painpredict predict --age 32 --sex Female --occlusal-reduction Yes \
      --photobiomodulation Yes --nsaid-use No`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		var in ml.ObservationInput
		in.Age, _ = cmd.Flags().GetInt("age")
		in.Sex, _ = cmd.Flags().GetString("sex")
		in.OcclusalReduction, _ = cmd.Flags().GetString("occlusal-reduction")
		in.Photobiomodulation, _ = cmd.Flags().GetString("photobiomodulation")
		in.NSAIDUse, _ = cmd.Flags().GetString("nsaid-use")

		obs, err := ml.NewObservation(in)
		if err != nil {
			return err
		}

		source, closer, err := openSource(cfg)
		if err != nil {
			return err
		}
		defer closer.Close()

		prediction, err := ml.NewEngine(ml.NewRegistry(source, ml.Horizons(), log), log).Predict(obs)
		if err != nil {
			return err
		}

		tag, err := cfg.Language()
		if err != nil {
			return err
		}
		interpreter := ml.NewInterpreter(tag)
		out := cmd.OutOrStdout()
		for _, result := range prediction.Results() {
			fmt.Fprintf(out, "%dh  %-5s %s\n", result.HorizonHours, interpreter.Percent(result.Probability),
				interpreter.Interpret(result.Probability, result.HorizonHours))
		}
		return nil
	},
}

func init() {
	predictCmd.Flags().Int("age", 32, "Age in years (18-100)")
	predictCmd.Flags().String("sex", "Female", "Female or Male")
	predictCmd.Flags().String("occlusal-reduction", "No", "No or Yes")
	predictCmd.Flags().String("photobiomodulation", "No", "No or Yes")
	predictCmd.Flags().String("nsaid-use", "No", "No or Yes")
}
