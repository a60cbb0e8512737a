package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"time-tracker/internal/storage"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Create a set of sample employees, projects and tasks for development. Employees are created verified and active so sessions can be started immediately.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		if err := seed(ctx, provider); err != nil {
			slog.Error("Seeding failed", "error", err)
			os.Exit(1)
		}
		fmt.Println("Sample data created")
	},
}

func seed(ctx context.Context, store storage.Provider) error {
	employees := []*storage.Employee{
		{Name: "John Doe", Email: "john.doe@example.com"},
		{Name: "Jane Smith", Email: "jane.smith@example.com"},
		{Name: "Bob Wilson", Email: "bob.wilson@example.com"},
	}

	for _, employee := range employees {
		if err := store.CreateEmployee(ctx, employee); err != nil {
			return fmt.Errorf("failed to create employee %s: %w", employee.Email, err)
		}
		// Skip the email verification round trip for sample accounts.
		if _, err := store.MarkEmployeeVerified(ctx, employee.ID); err != nil {
			return fmt.Errorf("failed to verify employee %s: %w", employee.Email, err)
		}
		slog.Info("Created sample employee", "email", employee.Email, "id", employee.ID)
	}

	websiteDescription := "Company website redesign"
	mobileDescription := "Mobile application development"
	projects := []struct {
		project *storage.Project
		roster  []int64
		tasks   []string
	}{
		{
			project: &storage.Project{Name: "Website Redesign", Description: &websiteDescription},
			roster:  []int64{employees[0].ID, employees[1].ID},
			tasks:   []string{"Design mockups", "Frontend implementation", "Content migration"},
		},
		{
			project: &storage.Project{Name: "Mobile App", Description: &mobileDescription},
			roster:  []int64{employees[1].ID, employees[2].ID},
			tasks:   []string{"API integration", "UI development"},
		},
	}

	for _, p := range projects {
		if err := store.CreateProject(ctx, p.project, p.roster); err != nil {
			return fmt.Errorf("failed to create project %s: %w", p.project.Name, err)
		}

		names := append([]string{"Default Task - " + p.project.Name}, p.tasks...)
		for _, name := range names {
			task := &storage.Task{Name: name, ProjectID: p.project.ID}
			if err := store.CreateTask(ctx, task); err != nil {
				return fmt.Errorf("failed to create task %s: %w", name, err)
			}
		}
		slog.Info("Created sample project", "name", p.project.Name, "id", p.project.ID, "tasks", len(names))
	}

	return nil
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
