package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"echo-daily/internal/diary"
)

// readContent builds the content document from args or stdin. Plain text
// is wrapped as {"text": ...}; --json passes the input through.
func readContent(args []string, raw bool) (string, error) {
	var text string
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		text = string(b)
	} else {
		text = strings.Join(args, " ")
	}

	if raw {
		return text, nil
	}
	b, err := json.Marshal(map[string]string{"text": strings.TrimRight(text, "\n")})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func printEntry(e *diary.Entry) {
	mood := ""
	if e.Mood != nil {
		mood = *e.Mood
		if e.MoodEmoji != nil {
			mood = *e.MoodEmoji + " " + mood
		}
	}
	fmt.Printf("%s  %-16s  updated %s\n", e.EntryDate, mood, e.UpdatedAt.UTC().Format(time.RFC3339))
}

// entry command
var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Manage journal entries",
}

var entryPutCmd = &cobra.Command{
	Use:   "put DATE [TEXT...]",
	Short: "Write the entry for a day (reads stdin when TEXT is omitted)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("json")

		content, err := readContent(args[1:], raw)
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		e, err := a.PutEntry(args[0], content)
		if err != nil {
			return err
		}
		fmt.Printf("Saved entry for %s\n", e.EntryDate)
		return nil
	},
}

var entryGetCmd = &cobra.Command{
	Use:   "get [DATE]",
	Short: "Print the entry content for a day",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		date := ""
		if len(args) > 0 {
			date = args[0]
		}
		e, err := a.GetEntry(date)
		if err != nil {
			return err
		}
		if e == nil {
			fmt.Println("No entry.")
			return nil
		}
		fmt.Println(e.ContentJSON)
		return nil
	},
}

var entryListCmd = &cobra.Command{
	Use:   "list [YYYY-MM]",
	Short: "List entries in a month",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mood, _ := cmd.Flags().GetString("mood")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		month := ""
		if len(args) > 0 {
			month = args[0]
		}
		entries, err := a.ListEntries(month, mood)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No entries.")
			return nil
		}
		for _, e := range entries {
			printEntry(e)
		}
		return nil
	},
}

var entryDeleteCmd = &cobra.Command{
	Use:   "delete DATE",
	Short: "Delete the entry for a day and its AI history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		deleted, err := a.DeleteEntry(args[0])
		if err != nil {
			return err
		}
		if !deleted {
			fmt.Println("No entry to delete.")
			return nil
		}
		fmt.Println("Entry deleted.")
		return nil
	},
}

var entryMoodCmd = &cobra.Command{
	Use:   "mood DATE MOOD [EMOJI]",
	Short: "Set the mood for a day (empty MOOD clears it)",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		emoji := ""
		if len(args) == 3 {
			emoji = args[2]
		}
		e, err := a.SetMood(args[0], args[1], emoji)
		if err != nil {
			return err
		}
		printEntry(e)
		return nil
	},
}

var entrySearchCmd = &cobra.Command{
	Use:   "search QUERY...",
	Short: "Full-text search over entry content and mood",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.Service().SearchEntries(strings.Join(args, " "))
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No matches.")
			return nil
		}
		for _, e := range entries {
			printEntry(e)
		}
		return nil
	},
}

// stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show writing statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.Service().WritingStats()
		if err != nil {
			return err
		}
		fmt.Printf("Entries:        %d\n", st.TotalEntries)
		fmt.Printf("Current streak: %d\n", st.CurrentStreak)
		fmt.Printf("Longest streak: %d\n", st.LongestStreak)
		return nil
	},
}

// ai command
var aiCmd = &cobra.Command{
	Use:   "ai",
	Short: "Record and inspect AI operations",
}

var aiRecordCmd = &cobra.Command{
	Use:   "record DATE",
	Short: "Record an AI transformation applied to a day's entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opType, _ := cmd.Flags().GetString("type")
		original, _ := cmd.Flags().GetString("original")
		result, _ := cmd.Flags().GetString("result")
		provider, _ := cmd.Flags().GetString("provider")
		model, _ := cmd.Flags().GetString("model")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		e, err := a.GetEntry(args[0])
		if err != nil {
			return err
		}
		if e == nil {
			return fmt.Errorf("%w: %s", diary.ErrEntryNotFound, args[0])
		}

		op, err := a.Service().RecordAIOperation(e.ID, opType, original, result, provider, model)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded %s operation %s\n", op.OpType, op.ID)
		return nil
	},
}

var aiListCmd = &cobra.Command{
	Use:   "list DATE",
	Short: "List AI operations for a day's entry, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		e, err := a.GetEntry(args[0])
		if err != nil {
			return err
		}
		if e == nil {
			fmt.Println("No entry.")
			return nil
		}

		ops, err := a.Service().ListAIOperations(e.ID)
		if err != nil {
			return err
		}
		if len(ops) == 0 {
			fmt.Println("No AI operations.")
			return nil
		}
		for _, op := range ops {
			fmt.Printf("%s  %-12s  %s/%s\n",
				op.CreatedAt.UTC().Format(time.RFC3339), op.OpType, op.Provider, op.Model)
		}
		return nil
	},
}

func init() {
	entryCmd.AddCommand(entryPutCmd, entryGetCmd, entryListCmd, entryDeleteCmd, entryMoodCmd, entrySearchCmd)
	entryPutCmd.Flags().Bool("json", false, "Treat input as a JSON content document")
	entryListCmd.Flags().String("mood", "", "Only list entries with this mood")

	aiCmd.AddCommand(aiRecordCmd, aiListCmd)
	aiRecordCmd.Flags().String("type", "", "Operation type (polish, expand, fix_grammar, ...)")
	aiRecordCmd.Flags().String("original", "", "Text before the operation")
	aiRecordCmd.Flags().String("result", "", "Text after the operation")
	aiRecordCmd.Flags().String("provider", "", "AI provider")
	aiRecordCmd.Flags().String("model", "", "Model name")
	aiRecordCmd.MarkFlagRequired("type")

	rootCmd.AddCommand(entryCmd, statsCmd, aiCmd)
}
