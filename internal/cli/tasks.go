package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hmelgaard/rota/internal/models"
)

func newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage event task checklists",
	}
	cmd.AddCommand(
		newTasksListCmd(),
		newTasksAddCmd(),
		newTasksToggleCmd(),
		newTasksRmCmd(),
		newTasksAttachCmd(),
	)
	return cmd
}

func newTasksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <event-id>",
		Short: "List an event's tasks as a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(cmd, envOptions{})
			if err != nil {
				return err
			}
			defer env.Close()

			tree, err := env.tasks.TreeByEvent(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return writeJSON(os.Stdout, tree)
			}
			if len(tree) == 0 {
				fmt.Println("No tasks.")
				return nil
			}
			printTaskTree(tree, 0)
			return nil
		},
	}
}

func printTaskTree(tasks []*models.Task, depth int) {
	for _, task := range tasks {
		box := "[ ]"
		if task.Completed {
			box = "[x]"
		}
		line := strings.Repeat("  ", depth) + box + " " + task.Title + "  (" + shortEventID(task.ID) + ")"
		fmt.Println(line)
		for _, att := range task.Attachments {
			fmt.Println(strings.Repeat("  ", depth+1) + "@ " + string(att.Kind) + ": " + att.Ref)
		}
		printTaskTree(task.Subtasks, depth+1)
	}
}

func newTasksAddCmd() *cobra.Command {
	task := &models.Task{}

	cmd := &cobra.Command{
		Use:   "add <event-id>",
		Short: "Add a task to an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task.EventID = args[0]

			env, err := openEnv(cmd, envOptions{})
			if err != nil {
				return err
			}
			defer env.Close()

			ctx := cmd.Context()
			if err := env.tasks.Create(ctx, task); err != nil {
				return err
			}
			env.feed.Publish(ctx, &models.Change{
				Op:         models.ChangeTaskCreated,
				EntityType: models.EntityTask,
				EntityID:   task.ID,
				Payload:    mustJSON(map[string]string{"title": task.Title}),
			})

			if jsonOutput(cmd) {
				return writeJSON(os.Stdout, task)
			}
			fmt.Printf("Added task %s as %s\n", task.Title, shortEventID(task.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&task.Title, "title", "", "Task title")
	cmd.Flags().StringVar(&task.Description, "description", "", "Task description")
	cmd.Flags().StringVar(&task.ParentID, "parent", "", "Parent task ID for a subtask")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTasksToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <task-id>",
		Short: "Flip a task's completion state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(cmd, envOptions{})
			if err != nil {
				return err
			}
			defer env.Close()

			ctx := cmd.Context()
			completed, err := env.tasks.Toggle(ctx, args[0])
			if err != nil {
				return err
			}
			env.feed.Publish(ctx, &models.Change{
				Op:         models.ChangeTaskToggled,
				EntityType: models.EntityTask,
				EntityID:   args[0],
				Payload:    mustJSON(map[string]bool{"completed": completed}),
			})
			fmt.Printf("%s: completed=%s\n", shortEventID(args[0]), formatYesNo(completed))
			return nil
		},
	}
}

func newTasksRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <task-id>",
		Short: "Delete a task and its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(cmd, envOptions{})
			if err != nil {
				return err
			}
			defer env.Close()

			ctx := cmd.Context()
			if err := env.tasks.Delete(ctx, args[0]); err != nil {
				return err
			}
			env.feed.Publish(ctx, &models.Change{
				Op:         models.ChangeTaskDeleted,
				EntityType: models.EntityTask,
				EntityID:   args[0],
			})
			fmt.Printf("Deleted %s\n", shortEventID(args[0]))
			return nil
		},
	}
}

func newTasksAttachCmd() *cobra.Command {
	attachment := &models.Attachment{}
	var kind string

	cmd := &cobra.Command{
		Use:   "attach <task-id>",
		Short: "Attach a link or file reference to a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			attachment.TaskID = args[0]
			attachment.Kind = models.AttachmentKind(kind)

			env, err := openEnv(cmd, envOptions{})
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.tasks.AddAttachment(cmd.Context(), attachment); err != nil {
				return err
			}
			fmt.Printf("Attached %s to %s\n", attachment.Ref, shortEventID(args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "link", "Attachment kind (link, file)")
	cmd.Flags().StringVar(&attachment.Ref, "ref", "", "URL, note text, or file path")
	cmd.Flags().StringVar(&attachment.Label, "label", "", "Display label")
	_ = cmd.MarkFlagRequired("ref")
	return cmd
}
