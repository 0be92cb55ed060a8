package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iudanet/dequeuesync/internal/client/attachments"
	"github.com/iudanet/dequeuesync/internal/models"
	"github.com/iudanet/dequeuesync/internal/syncerr"
)

// Поля сущности attachment, которые ведет CLI
const (
	fieldUploadState = "uploadState"
	fieldLocalPath   = "localPath"

	uploadPending     = "pending"
	uploadUploaded    = "uploaded"
	uploadWaitingWiFi = "waitingForWiFi"
)

// NewUploadCommand creates the upload command.
func NewUploadCommand(opts *RootOptions) *cobra.Command {
	var (
		parent   string
		mimeType string
		skip     bool
	)

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Attach a file to a stack, task or arc",
		Long: `Create an attachment and upload its content.

On a cellular connection files larger than 10 MB need confirmation: upload
now, wait for WiFi or cancel. Without a terminal the upload waits for WiFi.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseParent(parent)
			if err != nil {
				return err
			}
			if ref == nil {
				return errors.New("--parent is required")
			}
			return opts.withApp(cmd, func(ctx context.Context, app *App) error {
				app.gate.SetSkipWarnings(skip)
				app.gate.Subscribe(app.promptCellular)
				return app.upload(ctx, args[0], mimeType, *ref)
			})
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "parent reference type:id")
	cmd.Flags().StringVar(&mimeType, "mime", "", "MIME type (detected from the extension when empty)")
	cmd.Flags().BoolVar(&skip, "skip-cellular-warning", false, "do not ask before large uploads on cellular")

	return cmd
}

func (a *App) upload(ctx context.Context, path, mimeType string, parent models.ParentRef) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(abs))
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	state, err := a.data.Create(ctx, models.KindAttachment, "", map[string]any{
		"filename":       info.Name(),
		"mimeType":       mimeType,
		"size":           info.Size(),
		fieldUploadState: uploadPending,
	}, &parent)
	if err != nil {
		return err
	}

	up := attachments.Upload{
		ID:       state.ID,
		Path:     abs,
		Filename: info.Name(),
		MimeType: mimeType,
		Size:     info.Size(),
	}

	err = a.uploader.Upload(ctx, up)
	switch {
	case err == nil:
		a.io.Printf("Uploaded %s as attachment %s\n", up.Filename, up.ID)
		return a.setUploadState(ctx, up.ID, uploadUploaded, "")
	case errors.Is(err, attachments.ErrQueuedForWiFi):
		a.io.Printf("Attachment %s will be uploaded on WiFi (run sync or watch)\n", up.ID)
		return a.setUploadState(ctx, up.ID, uploadWaitingWiFi, up.Path)
	case errors.Is(err, attachments.ErrUploadCancelled):
		a.io.Println("Upload cancelled")
		_, delErr := a.data.Delete(ctx, models.KindAttachment, up.ID)
		return delErr
	case syncerr.IsRetryable(err) && a.io.IsInteractive():
		a.io.Println(syncerr.UserMessage(err))
		answer, readErr := a.io.ReadInput("Retry now? [y/N]: ")
		if readErr != nil || !strings.EqualFold(strings.TrimSpace(answer), "y") {
			return err
		}
		if err := a.uploader.Retry(ctx, up.ID); err != nil {
			return err
		}
		a.io.Printf("Uploaded %s as attachment %s\n", up.Filename, up.ID)
		return a.setUploadState(ctx, up.ID, uploadUploaded, "")
	default:
		return err
	}
}

// promptCellular отвечает на предупреждение CellularGate
func (a *App) promptCellular(w attachments.Warning) {
	if !w.ShowWarning {
		return
	}
	if !a.io.IsInteractive() {
		a.gate.HandleDecision(attachments.DecisionWaitForWiFi)
		return
	}

	answer, err := a.io.ReadInput(fmt.Sprintf(
		"%s is %.1f MB and you are on a cellular connection. Upload now? [y]es / [w]ait for WiFi / [c]ancel: ",
		w.PendingFilename, float64(w.PendingFileSize)/(1<<20)))
	if err != nil {
		a.gate.HandleDecision(attachments.DecisionCancel)
		return
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		a.gate.HandleDecision(attachments.DecisionProceed)
	case "w", "wait":
		a.gate.HandleDecision(attachments.DecisionWaitForWiFi)
	default:
		a.gate.HandleDecision(attachments.DecisionCancel)
	}
}

func (a *App) setUploadState(ctx context.Context, id, uploadState, localPath string) error {
	_, err := a.data.Update(ctx, models.KindAttachment, id, map[string]any{
		fieldUploadState: uploadState,
		fieldLocalPath:   localPath,
	})
	return err
}

// restoreWiFiQueue возвращает в очередь загрузки, отложенные до WiFi
// в прошлых запусках
func (a *App) restoreWiFiQueue(ctx context.Context) error {
	list, err := a.data.List(ctx, models.KindAttachment)
	if err != nil {
		return err
	}
	for _, state := range list {
		if state.String(fieldUploadState) != uploadWaitingWiFi {
			continue
		}
		att := attachmentFromState(state)
		a.gate.QueueForWiFi(attachments.Upload{
			ID:       att.ID,
			Path:     state.String(fieldLocalPath),
			Filename: att.Filename,
			MimeType: att.MimeType,
			Size:     att.Size,
		})
	}
	return nil
}

// flushWiFiUploads отправляет отложенные загрузки, если сеть WiFi
func (a *App) flushWiFiUploads(ctx context.Context) (int, error) {
	if !a.monitor.IsWiFi() {
		return 0, nil
	}
	sent, err := a.uploader.FlushWiFiQueue(ctx)
	for _, up := range sent {
		if stateErr := a.setUploadState(ctx, up.ID, uploadUploaded, ""); stateErr != nil {
			a.logger.Error("failed to mark attachment uploaded",
				slog.String("attachment_id", up.ID), slog.Any("error", stateErr))
		}
	}
	return len(sent), err
}

// NewDownloadCommand creates the download command.
func NewDownloadCommand(opts *RootOptions) *cobra.Command {
	var behavior string

	cmd := &cobra.Command{
		Use:   "download [attachment-id]",
		Short: "Download attachment content",
		Long: `With an id, download that attachment regardless of the download policy.
Without an id, download every missing attachment the policy allows.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *App) error {
				if len(args) == 1 {
					return app.downloadOne(ctx, args[0])
				}
				return app.downloadAll(ctx, behavior)
			})
		},
	}
	cmd.Flags().StringVar(&behavior, "behavior", "", "override download behavior: always, wifiOnly or onDemand")

	return cmd
}

func (a *App) downloadOne(ctx context.Context, id string) error {
	state, err := a.data.Get(ctx, models.KindAttachment, id)
	if err != nil {
		return err
	}
	att := attachmentFromState(state)
	if err := a.downloads.Download(ctx, att); err != nil {
		return err
	}
	a.io.Printf("Saved %s to %s\n", att.Filename, attachments.LocalPath(a.cfg.Downloads.Dir, att))
	return nil
}

func (a *App) downloadAll(ctx context.Context, behavior string) error {
	a.downloads.Subscribe(func(p attachments.Progress) {
		if p.IsAutoDownloading && p.TotalQueued > 0 {
			a.io.Printf("\rDownloading %d/%d", p.CompletedCount, p.TotalQueued)
		}
	})

	current := a.downloads.Behavior()
	if behavior != "" {
		next, err := attachments.ParseDownloadBehavior(behavior)
		if err != nil {
			return err
		}
		if next != current {
			a.downloads.HandleSettingsChange(ctx, current, next)
			a.downloads.Wait()
		}
	}

	if !a.downloads.ShouldAutoDownload() {
		a.io.Printf("Automatic downloads are off (behavior %s, network %s). Pass an id to download one attachment.\n",
			a.downloads.Behavior(), a.monitor.Class())
		return nil
	}

	a.downloads.EvaluateAutoDownloads(ctx)
	p := a.downloads.Progress()
	if p.TotalQueued == 0 {
		a.io.Println("All attachments are downloaded")
		return nil
	}
	a.io.Printf("\nDownloaded %d of %d attachment(s)\n", p.CompletedCount, p.TotalQueued)
	if p.CompletedCount < p.TotalQueued {
		return errors.New("some attachments failed to download")
	}
	return nil
}
