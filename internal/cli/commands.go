package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dmitrijs2005/lanshare/internal/common"
	"github.com/dmitrijs2005/lanshare/internal/services"
)

const timeLayout = "2006-01-02 15:04:05"

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", common.ErrorValidation, s)
	}
	return id, nil
}

func (a *App) ListTexts(ctx context.Context, query string) error {
	list, err := a.svc.ListAllTexts(ctx)
	if err != nil {
		return err
	}
	list = services.FilterTexts(list, query)
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No texts.")
		return nil
	}
	for _, e := range list {
		fmt.Fprintf(a.out, "#%d\t%s\t%s\n", e.ID, e.CreatedAt.Local().Format(timeLayout), e.Title)
	}
	return nil
}

func (a *App) ListFiles(ctx context.Context, query string) error {
	list, err := a.svc.ListAllFiles(ctx)
	if err != nil {
		return err
	}
	list = services.FilterFiles(list, query)
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No files.")
		return nil
	}
	for _, e := range list {
		fmt.Fprintf(a.out, "#%d\t%s\t%s\t%s\n", e.ID, e.CreatedAt.Local().Format(timeLayout),
			services.RenderSize(e.SizeBytes), e.OriginalName)
	}
	return nil
}

func (a *App) AddText(ctx context.Context) error {
	content, err := GetMultiline(a.reader, "Enter text", a.prompt)
	if err != nil {
		return err
	}
	id, err := a.svc.ShareText(ctx, content)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Text #%d shared.\n", id)
	return nil
}

// AddFile shares the file at path under its base name. Files above the
// upload ceiling are rejected without being read.
func (a *App) AddFile(ctx context.Context, path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	if st.IsDir() {
		return fmt.Errorf("%w: %s is a directory", common.ErrorValidation, path)
	}

	name := filepath.Base(path)

	var content []byte
	if st.Size() <= a.svc.MaxUploadBytes() {
		if content, err = os.ReadFile(path); err != nil {
			return err
		}
	}

	size := st.Size()
	if content != nil {
		size = int64(len(content))
	}

	id, err := a.svc.ShareFile(ctx, name, content, size)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "File #%d shared (%s).\n", id, services.RenderSize(size))
	return nil
}

// Get saves a shared file. When dest is an existing directory the original
// name is used inside it.
func (a *App) Get(ctx context.Context, rawID, dest string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	entry, data, err := a.svc.Download(ctx, id)
	if err != nil {
		return err
	}

	if st, err := os.Stat(dest); err == nil && st.IsDir() {
		dest = filepath.Join(dest, filepath.Base(entry.OriginalName))
	}

	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %s (%s).\n", dest, services.RenderSize(int64(len(data))))
	return nil
}

func (a *App) DeleteText(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	if err := a.svc.RemoveText(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Text #%d deleted.\n", id)
	return nil
}

func (a *App) DeleteFile(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	if err := a.svc.RemoveFile(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "File #%d deleted.\n", id)
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	s, err := a.svc.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Texts: %d\nFiles: %d\n", s.Texts, s.Files)
	return nil
}
