package analytics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/posthog/posthog-go"
)

const (
	IndexCommand       = "executed_index_command"
	QueryCommand       = "executed_query_command"
	RunCommand         = "executed_run_command"
	DiffCommand        = "executed_diff_command"
	ReportCommand      = "executed_report_command"
	VersionCommand     = "executed_version_command"
	LegacySynonymUsage = "executed_legacy_synonym"
)

var (
	PublicKey     string
	enableMetrics bool
)

func Init(disableMetrics bool) {
	enableMetrics = !disableMetrics
}

func createEnvFile() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Println("Error getting user home directory:", err)
		return
	}
	envFile := filepath.Join(homeDir, ".whyx", ".env")
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(envFile), os.ModePerm); err != nil {
			fmt.Println("Error creating directory:", err)
			return
		}
		env := map[string]string{
			"uuid": uuid.New().String(),
		}
		err = godotenv.Write(env, envFile)
		if err != nil {
			fmt.Println("Error writing to .env file:", err)
		}
	}
}

func LoadEnvFile() {
	createEnvFile()
	envFile := filepath.Join(os.Getenv("HOME"), ".whyx", ".env")
	err := godotenv.Load(envFile)
	if err != nil {
		return
	}
}

// ReportEvent submits an anonymous usage event. Events carry the command
// name only, never paths or symbols.
func ReportEvent(event string) {
	if enableMetrics && PublicKey != "" {
		client, err := posthog.NewWithConfig(
			PublicKey,
			posthog.Config{
				Endpoint: "https://us.i.posthog.com",
			},
		)
		if err != nil {
			fmt.Println(err)
			return
		}
		defer client.Close()
		err = client.Enqueue(posthog.Capture{
			DistinctId: os.Getenv("uuid"),
			Event:      event,
		})
		if err != nil {
			fmt.Println(err)
			return
		}
	}
}
