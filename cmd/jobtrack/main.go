package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"jobtrack/internal/app"
	"jobtrack/internal/config"
	"jobtrack/internal/model"
	"jobtrack/internal/tracker"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer a.Close().
// operation identifies the CLI command being run (e.g. "AddApplication", "Export").
func newApp(operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

var rootCmd = &cobra.Command{
	Use:   "jobtrack",
	Short: "Local job application tracker",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		fmt.Printf("Store:    %s (%s)\n", cfg.Store.Type, cfg.Store.DataDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Store:      %s\n", cfg.Store.Type)
		fmt.Printf("Data Dir:   %s\n", cfg.Store.DataDir)
		fmt.Printf("Legacy:     %s\n", cfg.Legacy.Path)
		return nil
	},
}

// app command
var appCmd = &cobra.Command{
	Use:   "app",
	Short: "Manage job applications",
}

var appAddCmd = &cobra.Command{
	Use:   "add COMPANY POSITION",
	Short: "Track a new application",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobURL, _ := cmd.Flags().GetString("url")
		platform, _ := cmd.Flags().GetString("platform")
		priority, _ := cmd.Flags().GetString("priority")
		tags, _ := cmd.Flags().GetStringSlice("tag")
		dateStr, _ := cmd.Flags().GetString("date")

		a, err := newApp("AddApplication")
		if err != nil {
			return err
		}
		defer a.Close()

		application := model.Application{
			Company:  args[0],
			Position: args[1],
			JobURL:   jobURL,
			Platform: platform,
			Priority: priority,
			Tags:     tags,
		}
		if dateStr != "" {
			d, err := parseDate(dateStr)
			if err != nil {
				return err
			}
			application.DateApplied = d
		}

		res, err := a.Service().AddApplication(cmd.Context(), application)
		if err != nil {
			return fmt.Errorf("adding application: %w", err)
		}

		if res.Duplicate {
			fmt.Printf("Already tracked: %s @ %s (%s)\n",
				res.Existing.Position, res.Existing.Company, res.Existing.ID)
			return nil
		}

		fmt.Printf("Tracking %s @ %s (%s)\n",
			res.Application.Position, res.Application.Company, res.Application.ID)
		return nil
	},
}

var appListCmd = &cobra.Command{
	Use:   "list",
	Short: "List applications",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")

		a, err := newApp("ListApplications")
		if err != nil {
			return err
		}
		defer a.Close()

		apps, err := a.Service().ListApplications(cmd.Context())
		if err != nil {
			return err
		}

		sort.Slice(apps, func(i, j int) bool {
			return apps[i].DateApplied.After(apps[j].DateApplied)
		})

		shown := 0
		for _, ap := range apps {
			if status != "" && ap.CurrentStatus() != status {
				continue
			}
			shown++
			fmt.Printf("%s  %-12s  %s  %s @ %s\n",
				ap.ID,
				ap.CurrentStatus(),
				ap.DateApplied.Format("2006-01-02"),
				ap.Position,
				ap.Company,
			)
		}

		if shown == 0 {
			fmt.Println("No applications found.")
		}
		return nil
	},
}

var appShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "View one application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetApplication")
		if err != nil {
			return err
		}
		defer a.Close()

		ap, err := a.Service().GetApplication(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s @ %s\n", ap.Position, ap.Company)
		fmt.Printf("ID:       %s\n", ap.ID)
		fmt.Printf("Status:   %s\n", ap.CurrentStatus())
		fmt.Printf("Applied:  %s\n", ap.DateApplied.Format("2006-01-02"))
		fmt.Printf("Priority: %s\n", ap.Priority)
		if ap.JobURL != "" {
			fmt.Printf("URL:      %s\n", ap.JobURL)
		}
		if ap.Platform != "" {
			fmt.Printf("Platform: %s\n", ap.Platform)
		}
		if len(ap.Tags) > 0 {
			fmt.Printf("Tags:     %s\n", strings.Join(ap.Tags, ", "))
		}
		if len(ap.StatusHistory) > 0 {
			fmt.Println("\nHistory:")
			for _, h := range ap.StatusHistory {
				line := fmt.Sprintf("  %s  %s", h.Date.Format("2006-01-02"), h.Status)
				if h.Notes != "" {
					line += "  " + h.Notes
				}
				fmt.Println(line)
			}
		}
		return nil
	},
}

var appUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Update an application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		note, _ := cmd.Flags().GetString("note")
		priority, _ := cmd.Flags().GetString("priority")
		rejection, _ := cmd.Flags().GetString("rejection-reason")

		changes := model.Document{}
		if status != "" {
			changes["status"] = status
		}
		if note != "" {
			changes["statusNote"] = note
		}
		if priority != "" {
			changes["priority"] = priority
		}
		if rejection != "" {
			changes["rejectionReason"] = rejection
		}
		if len(changes) == 0 {
			return fmt.Errorf("nothing to update")
		}

		a, err := newApp("UpdateApplication")
		if err != nil {
			return err
		}
		defer a.Close()

		ap, err := a.Service().UpdateApplication(cmd.Context(), args[0], changes)
		if err != nil {
			return err
		}

		fmt.Printf("Updated %s @ %s: %s\n", ap.Position, ap.Company, ap.CurrentStatus())
		return nil
	},
}

var appDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete an application and its related records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("DeleteApplication")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Service().DeleteApplication(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Printf("Deleted application %s\n", args[0])
		return nil
	},
}

// contact command
var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Manage contacts",
}

var contactAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a contact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		company, _ := cmd.Flags().GetString("company")
		title, _ := cmd.Flags().GetString("title")
		ctype, _ := cmd.Flags().GetString("type")

		a, err := newApp("AddContact")
		if err != nil {
			return err
		}
		defer a.Close()

		c, err := a.Service().AddContact(cmd.Context(), model.Contact{
			Name:    args[0],
			Email:   email,
			Company: company,
			Title:   title,
			Type:    ctype,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Added contact %s (%s)\n", c.Name, c.ID)
		return nil
	},
}

var contactListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListContacts")
		if err != nil {
			return err
		}
		defer a.Close()

		contacts, err := a.Service().ListContacts(cmd.Context())
		if err != nil {
			return err
		}

		if len(contacts) == 0 {
			fmt.Println("No contacts found.")
			return nil
		}

		for _, c := range contacts {
			fmt.Printf("%s  %-25s  %-12s  %s\n", c.ID, c.Name, c.Type, c.Company)
		}
		return nil
	},
}

var contactDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a contact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		withComms, _ := cmd.Flags().GetBool("with-comms")

		a, err := newApp("DeleteContact")
		if err != nil {
			return err
		}
		defer a.Close()

		if withComms {
			err = a.Service().DeleteContactWithComms(cmd.Context(), args[0])
		} else {
			err = a.Service().DeleteContact(cmd.Context(), args[0])
		}
		if err != nil {
			return err
		}

		fmt.Printf("Deleted contact %s\n", args[0])
		return nil
	},
}

// comm command
var commCmd = &cobra.Command{
	Use:   "comm",
	Short: "Manage communications",
}

var commLogCmd = &cobra.Command{
	Use:   "log CONTACT_ID",
	Short: "Log a communication with a contact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctype, _ := cmd.Flags().GetString("type")
		direction, _ := cmd.Flags().GetString("direction")
		subject, _ := cmd.Flags().GetString("subject")
		appID, _ := cmd.Flags().GetString("app")

		a, err := newApp("LogCommunication")
		if err != nil {
			return err
		}
		defer a.Close()

		c, err := a.Service().LogCommunication(cmd.Context(), model.Communication{
			ContactID:     args[0],
			ApplicationID: appID,
			Type:          ctype,
			Direction:     direction,
			Subject:       subject,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Logged %s %s (%s)\n", c.Direction, c.Type, c.ID)
		return nil
	},
}

// interview command
var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Manage interviews",
}

var interviewScheduleCmd = &cobra.Command{
	Use:   "schedule APP_ID DATE",
	Short: "Schedule an interview round",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		round, _ := cmd.Flags().GetInt("round")
		itype, _ := cmd.Flags().GetString("type")

		when, err := parseDate(args[1])
		if err != nil {
			return err
		}

		a, err := newApp("ScheduleInterview")
		if err != nil {
			return err
		}
		defer a.Close()

		iv, err := a.Service().ScheduleInterview(cmd.Context(), model.Interview{
			ApplicationID: args[0],
			Round:         round,
			Type:          itype,
			ScheduledDate: when,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Scheduled round %d on %s (%s)\n",
			iv.Round, iv.ScheduledDate.Format("2006-01-02"), iv.ID)
		return nil
	},
}

var interviewOutcomeCmd = &cobra.Command{
	Use:   "outcome ID OUTCOME",
	Short: "Record an interview outcome (passed, failed, pending)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SetInterviewOutcome")
		if err != nil {
			return err
		}
		defer a.Close()

		iv, err := a.Service().SetInterviewOutcome(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		fmt.Printf("Interview %s: %s\n", iv.ID, iv.Outcome)
		return nil
	},
}

// task command
var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Add a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appID, _ := cmd.Flags().GetString("app")
		dueStr, _ := cmd.Flags().GetString("due")

		task := model.Task{Title: args[0], ApplicationID: appID}
		if dueStr != "" {
			due, err := parseDate(dueStr)
			if err != nil {
				return err
			}
			task.DueDate = &due
		}

		a, err := newApp("AddTask")
		if err != nil {
			return err
		}
		defer a.Close()

		t, err := a.Service().AddTask(cmd.Context(), task)
		if err != nil {
			return err
		}

		fmt.Printf("Added task %s (%s)\n", t.Title, t.ID)
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done ID",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("CompleteTask")
		if err != nil {
			return err
		}
		defer a.Close()

		t, err := a.Service().CompleteTask(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Completed: %s\n", t.Title)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		appID, _ := cmd.Flags().GetString("app")

		a, err := newApp("ListTasks")
		if err != nil {
			return err
		}
		defer a.Close()

		tasks, err := a.Service().ListTasks(cmd.Context(), appID)
		if err != nil {
			return err
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		for _, t := range tasks {
			mark := " "
			if t.Completed {
				mark = "x"
			}
			due := ""
			if t.DueDate != nil {
				due = "  due " + t.DueDate.Format("2006-01-02")
			}
			fmt.Printf("[%s] %s  %s%s\n", mark, t.ID, t.Title, due)
		}
		return nil
	},
}

// stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show application statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Stats")
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.Service().Stats(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Total:      %d\n", st.Total)
		fmt.Printf("This week:  %d\n", st.ThisWeek)
		fmt.Printf("This month: %d\n", st.ThisMonth)
		fmt.Printf("Interview rate: %d%%\n", st.InterviewRate)
		fmt.Printf("Offer rate:     %d%%\n", st.OfferRate)

		if len(st.ByStatus) > 0 {
			fmt.Println("\nBy status:")
			statuses := make([]string, 0, len(st.ByStatus))
			for s := range st.ByStatus {
				statuses = append(statuses, s)
			}
			sort.Strings(statuses)
			for _, s := range statuses {
				fmt.Printf("  %-12s %d\n", s, st.ByStatus[s])
			}
		}
		return nil
	},
}

var statsFunnelCmd = &cobra.Command{
	Use:   "funnel",
	Short: "Show the pipeline funnel",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("FunnelReport")
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := a.Service().FunnelReport(cmd.Context())
		if err != nil {
			return err
		}

		for i, stage := range f.Stages {
			conv := ""
			if i < len(f.Conversion) {
				conv = fmt.Sprintf("  ->%3d%%", f.Conversion[i])
			}
			fmt.Printf("%-12s %4d%s\n", stage, f.Counts[i], conv)
		}
		return nil
	},
}

var statsTimelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show time spent in each status",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("TimelineReport")
		if err != nil {
			return err
		}
		defer a.Close()

		days, avg, err := a.Service().TimelineReport(cmd.Context())
		if err != nil {
			return err
		}

		statuses := make([]string, 0, len(days))
		for s := range days {
			statuses = append(statuses, s)
		}
		sort.Strings(statuses)
		for _, s := range statuses {
			fmt.Printf("%-12s %d day(s)\n", s, days[s])
		}
		if avg != nil {
			fmt.Printf("\nAvg days to interview: %d\n", *avg)
		}
		return nil
	},
}

var statsHeatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Show daily application counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")

		a, err := newApp("HeatmapReport")
		if err != nil {
			return err
		}
		defer a.Close()

		counts, err := a.Service().HeatmapReport(cmd.Context(), days)
		if err != nil {
			return err
		}

		dates := make([]string, 0, len(counts))
		for d := range counts {
			dates = append(dates, d)
		}
		sort.Strings(dates)
		for _, d := range dates {
			fmt.Printf("%s  %d\n", d, counts[d])
		}
		if len(dates) == 0 {
			fmt.Println("No applications in range.")
		}
		return nil
	},
}

var statsGoalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Show goal progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GoalReport")
		if err != nil {
			return err
		}
		defer a.Close()

		g, err := a.Service().GoalReportNow(cmd.Context())
		if err != nil {
			return err
		}

		printGoal := func(name string, p tracker.GoalProgress) {
			done := ""
			if p.Completed {
				done = "  [done]"
			}
			fmt.Printf("%-8s %d/%d (%d%%)%s\n", name, p.Current, p.Target, p.Percent, done)
		}
		printGoal("Weekly", g.Weekly)
		printGoal("Monthly", g.Monthly)
		return nil
	},
}

var statsFollowupCmd = &cobra.Command{
	Use:   "followup",
	Short: "List applications needing follow-up",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("FollowUpReport")
		if err != nil {
			return err
		}
		defer a.Close()

		apps, err := a.Service().FollowUpReport(cmd.Context())
		if err != nil {
			return err
		}

		if len(apps) == 0 {
			fmt.Println("Nothing needs follow-up.")
			return nil
		}

		for _, ap := range apps {
			ref := ap.Meta.UpdatedAt
			if ap.LastContacted != nil {
				ref = *ap.LastContacted
			}
			fmt.Printf("%s  %s @ %s  last contact %s\n",
				ap.ID, ap.Position, ap.Company, ref.Format("2006-01-02"))
		}
		return nil
	},
}

// export command
var exportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Export all data as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Export")
		if err != nil {
			return err
		}
		defer a.Close()

		env, err := a.Service().ExportAll(cmd.Context())
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(env, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding export: %w", err)
		}

		if len(args) == 0 {
			fmt.Println(string(data))
			return nil
		}

		if err := os.WriteFile(args[0], data, 0644); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}
		fmt.Printf("Exported %d application(s) to %s\n", len(env.Applications), args[0])
		return nil
	},
}

// import command
var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import data from a JSON export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		merge, _ := cmd.Flags().GetBool("merge")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading import file: %w", err)
		}

		var env tracker.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return fmt.Errorf("parsing import file: %w", err)
		}

		if problems := tracker.ValidateImport(&env); len(problems) > 0 {
			for _, p := range problems {
				fmt.Fprintf(os.Stderr, "invalid import: %s\n", p)
			}
			return fmt.Errorf("import file failed validation")
		}

		a, err := newApp("Import")
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.Service().Import(cmd.Context(), &env, merge)
		if err != nil {
			return err
		}

		fmt.Printf("Imported %d, skipped %d, failed %d\n",
			report.Added, report.Skipped, report.Failed)
		return nil
	},
}

// migrate-legacy command
var migrateLegacyCmd = &cobra.Command{
	Use:   "migrate-legacy",
	Short: "Migrate the legacy flat store (one-time)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("MigrateLegacy")
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.MigrateLegacy(cmd.Context())
		if err != nil {
			return err
		}

		if report.AlreadyDone {
			fmt.Println("Migration already completed; nothing to do.")
			return nil
		}

		fmt.Printf("Migrated %d application(s), %d failed\n",
			report.Applications, report.Failed)
		for _, id := range report.FailedIDs {
			fmt.Printf("  failed: %s\n", id)
		}
		if report.Profile {
			fmt.Println("Profile migrated.")
		}
		if report.Settings {
			fmt.Println("Settings migrated.")
		}
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// app subcommands
	appCmd.AddCommand(appAddCmd)
	appAddCmd.Flags().String("url", "", "Job posting URL")
	appAddCmd.Flags().String("platform", "", "Source platform (linkedin, indeed, ...)")
	appAddCmd.Flags().String("priority", "", "Priority (high, medium, low)")
	appAddCmd.Flags().StringSlice("tag", nil, "Tag (repeatable)")
	appAddCmd.Flags().String("date", "", "Date applied (YYYY-MM-DD, default today)")
	appCmd.AddCommand(appListCmd)
	appListCmd.Flags().String("status", "", "Filter by status")
	appCmd.AddCommand(appShowCmd)
	appCmd.AddCommand(appUpdateCmd)
	appUpdateCmd.Flags().String("status", "", "New status")
	appUpdateCmd.Flags().String("note", "", "Note for the status change")
	appUpdateCmd.Flags().String("priority", "", "New priority")
	appUpdateCmd.Flags().String("rejection-reason", "", "Rejection reason")
	appCmd.AddCommand(appDeleteCmd)

	// contact subcommands
	contactCmd.AddCommand(contactAddCmd)
	contactAddCmd.Flags().String("email", "", "Email address")
	contactAddCmd.Flags().String("company", "", "Company")
	contactAddCmd.Flags().String("title", "", "Job title")
	contactAddCmd.Flags().String("type", "recruiter", "Contact type")
	contactCmd.AddCommand(contactListCmd)
	contactCmd.AddCommand(contactDeleteCmd)
	contactDeleteCmd.Flags().Bool("with-comms", false, "Also delete the contact's communications")

	// comm subcommands
	commCmd.AddCommand(commLogCmd)
	commLogCmd.Flags().String("type", "email", "Communication type")
	commLogCmd.Flags().String("direction", "outbound", "Direction (outbound, inbound)")
	commLogCmd.Flags().String("subject", "", "Subject line")
	commLogCmd.Flags().String("app", "", "Related application ID")

	// interview subcommands
	interviewCmd.AddCommand(interviewScheduleCmd)
	interviewScheduleCmd.Flags().Int("round", 1, "Interview round")
	interviewScheduleCmd.Flags().String("type", "", "Interview type (phone, technical, onsite, ...)")
	interviewCmd.AddCommand(interviewOutcomeCmd)

	// task subcommands
	taskCmd.AddCommand(taskAddCmd)
	taskAddCmd.Flags().String("app", "", "Related application ID")
	taskAddCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskListCmd)
	taskListCmd.Flags().String("app", "", "Filter by application ID")

	// stats subcommands
	statsCmd.AddCommand(statsFunnelCmd)
	statsCmd.AddCommand(statsTimelineCmd)
	statsCmd.AddCommand(statsHeatmapCmd)
	statsHeatmapCmd.Flags().Int("days", 365, "Days of history to include")
	statsCmd.AddCommand(statsGoalsCmd)
	statsCmd.AddCommand(statsFollowupCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(appCmd)
	rootCmd.AddCommand(contactCmd)
	rootCmd.AddCommand(commCmd)
	rootCmd.AddCommand(interviewCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(migrateLegacyCmd)
}
