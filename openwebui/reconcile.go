package openwebui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// remoteAPI is the subset of Client that the Reconciler drives.
// Extracted for testability.
type remoteAPI interface {
	ListCollections(ctx context.Context) ([]Collection, error)
	GetCollection(ctx context.Context, id string) (*CollectionDetail, error)
	CreateCollection(ctx context.Context, name, description string) (*Collection, error)
	ListFiles(ctx context.Context) (map[string]RemoteFile, error)
	AttachExistingFile(ctx context.Context, collectionID, fileID string) error
	UploadAndAttachFile(ctx context.Context, collectionID, localPath string) error
}

// PrettifyName converts a directory basename to a collection name:
// hyphens and underscores become spaces and each word is capitalized.
// "career-data" -> "Career Data", "ABC" -> "Abc".
func PrettifyName(name string) string {
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")

	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// Summary counts what a reconciliation run did. Errors counts per-item
// failures that were logged and skipped; it never affects the process
// exit code.
type Summary struct {
	Collections        int
	CollectionsCreated int
	FilesUploaded      int
	FilesAttached      int
	Errors             int
}

// Reconciler converges remote collection state onto a local directory
// snapshot. Every top-level subdirectory of the scan root maps to one
// collection; every supported file under it must end up attached to
// that collection. Files present remotely but absent locally are left
// alone.
type Reconciler struct {
	remote remoteAPI
	logger *slog.Logger
}

// NewReconciler creates a reconciler with the given remote client.
func NewReconciler(remote remoteAPI, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		remote: remote,
		logger: logger,
	}
}

// Run reconciles the local snapshot under baseDir against the remote
// service. Listing failures degrade to empty state and per-item
// failures are logged and skipped, so one bad file or unreachable
// collection never aborts the rest of the run. An error is returned
// only when baseDir itself cannot be enumerated.
func (r *Reconciler) Run(ctx context.Context, baseDir string, local map[string]LocalFile) (*Summary, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return nil, fmt.Errorf("reading base directory: %w", err)
	}

	summary := &Summary{}

	remoteFiles, err := r.remote.ListFiles(ctx)
	if err != nil {
		r.logger.Error("listing remote files", slog.String("error", err.Error()))
		remoteFiles = map[string]RemoteFile{}
		summary.Errors++
	}
	r.logger.Info("remote files", slog.Int("count", len(remoteFiles)))

	index := make(map[string]Collection)
	collections, err := r.remote.ListCollections(ctx)
	if err != nil {
		r.logger.Error("listing remote collections", slog.String("error", err.Error()))
		summary.Errors++
	}
	for _, col := range collections {
		index[col.Name] = col
	}
	r.logger.Info("remote collections", slog.Int("count", len(index)))

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		// NFC, matching the scan keys so prefix selection works for
		// directories stored in decomposed form.
		r.syncCollection(ctx, norm.NFC.String(entry.Name()), local, remoteFiles, index, summary)
	}

	r.logger.Info("reconciliation complete",
		slog.Int("collections", summary.Collections),
		slog.Int("created", summary.CollectionsCreated),
		slog.Int("uploaded", summary.FilesUploaded),
		slog.Int("attached", summary.FilesAttached),
		slog.Int("errors", summary.Errors),
	)
	return summary, nil
}

// syncCollection converges one top-level directory onto its collection:
// create the collection if the name is unknown, fetch the authoritative
// detail once, then sync every local file under the directory.
func (r *Reconciler) syncCollection(ctx context.Context, dir string, local map[string]LocalFile, remoteFiles map[string]RemoteFile, index map[string]Collection, summary *Summary) {
	name := PrettifyName(dir)
	r.logger.Info("processing collection", slog.String("name", name), slog.String("dir", dir))

	collection, exists := index[name]
	if !exists {
		description := fmt.Sprintf("Auto-created by knowledge-sync from %s", dir)
		created, err := r.remote.CreateCollection(ctx, name, description)
		if err != nil {
			r.logger.Error("creating collection",
				slog.String("name", name),
				slog.String("error", err.Error()),
			)
			summary.Errors++
			return
		}
		r.logger.Info("created collection", slog.String("name", name), slog.String("id", created.ID))
		index[name] = *created
		collection = *created
		summary.CollectionsCreated++
	}
	summary.Collections++

	// Read the attached-file set once per collection. It is not kept
	// consistent across the attach calls below.
	attached := make(map[string]bool)
	detail, err := r.remote.GetCollection(ctx, collection.ID)
	if err != nil {
		r.logger.Error("getting collection detail",
			slog.String("id", collection.ID),
			slog.String("error", err.Error()),
		)
		summary.Errors++
	} else {
		for _, id := range detail.FileIDs {
			attached[id] = true
		}
	}
	r.logger.Debug("collection detail",
		slog.String("name", name),
		slog.Int("attached_files", len(attached)),
	)

	selected := selectFiles(local, dir)
	r.logger.Info("local files for collection",
		slog.String("name", name),
		slog.Int("count", len(selected)),
	)

	for _, lf := range selected {
		if err := r.syncFile(ctx, collection.ID, lf, remoteFiles, summary); err != nil {
			r.logger.Error("syncing file",
				slog.String("path", lf.RelPath),
				slog.String("collection", name),
				slog.String("error", err.Error()),
			)
			summary.Errors++
		}
	}
}

// syncFile ensures one local file is attached to the collection. A
// remote file with the same basename is reused by id regardless of
// content; local hashes are computed but deliberately not compared
// against remote state. The attach is issued without a membership
// check because the remote attach operation is idempotent.
func (r *Reconciler) syncFile(ctx context.Context, collectionID string, lf LocalFile, remoteFiles map[string]RemoteFile, summary *Summary) error {
	basename := path.Base(lf.RelPath)

	existingID := ""
	for id, rf := range remoteFiles {
		if rf.Filename == basename {
			existingID = id
			break
		}
	}

	if existingID != "" {
		r.logger.Info("attaching existing remote file",
			slog.String("filename", basename),
			slog.String("file_id", existingID),
		)
		r.logger.Debug("local content hash", slog.String("path", lf.RelPath), slog.String("sha256", lf.Hash))
		if err := r.remote.AttachExistingFile(ctx, collectionID, existingID); err != nil {
			return err
		}
		summary.FilesAttached++
		return nil
	}

	r.logger.Info("uploading and attaching new file",
		slog.String("filename", basename),
		slog.String("path", lf.RelPath),
	)
	if err := r.remote.UploadAndAttachFile(ctx, collectionID, lf.AbsPath); err != nil {
		return err
	}
	summary.FilesUploaded++
	summary.FilesAttached++
	return nil
}

// selectFiles returns the local files under the given top-level
// directory, sorted by relative path for stable log output.
func selectFiles(local map[string]LocalFile, dir string) []LocalFile {
	prefix := dir + "/"

	var selected []LocalFile
	for relPath, lf := range local {
		if strings.HasPrefix(relPath, prefix) {
			selected = append(selected, lf)
		}
	}
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].RelPath < selected[j].RelPath
	})
	return selected
}
