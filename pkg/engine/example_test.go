package engine_test

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/tidyup/pkg/engine"
	"github.com/arthur-debert/tidyup/pkg/executor"
	"github.com/arthur-debert/tidyup/pkg/matchers"
	"github.com/arthur-debert/tidyup/pkg/predicates"
	"github.com/arthur-debert/tidyup/pkg/types"
	"github.com/spf13/afero"
)

// Episodes named "1x01.m4v" get the title of the matching subtitle file,
// "1x01 - Pilot.srt", so both end up as "1x01 - Pilot.*".
func Example() {
	fsys := afero.NewMemMapFs()
	for _, name := range []string{"1x01.m4v", "1x01 - Pilot.srt", "1x02.m4v", "1x02 - Next Episode.srt"} {
		_ = afero.WriteFile(fsys, "/tv/"+name, nil, 0644)
	}

	e := engine.New(engine.Options{
		Globber:   matchers.NewMatcher(fsys, "/tv"),
		Inspector: predicates.NewEvaluator(fsys),
		Actor:     executor.New(executor.Options{FS: fsys, Logger: &quiet}),
		Root:      "/tv",
		OnEntry:   func(entry types.ActionLogEntry) { fmt.Println(entry) },
		Logger:    &quiet,
	})

	_ = e.Register("Add titles to episodes", func(ctx *engine.Context) error {
		subtitles, err := ctx.Dir("*.srt")
		if err != nil {
			return err
		}
		for _, srt := range subtitles {
			dir := filepath.Dir(srt.Path)
			base := strings.TrimSuffix(filepath.Base(srt.Path), ".srt")
			episode, _, _ := strings.Cut(base, " - ")

			_, err := ctx.Rename(
				filepath.Join(dir, episode+".m4v"),
				filepath.Join(dir, base+".m4v"),
				engine.WithConflict(types.ConflictSkip),
			)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if _, err := e.Run(); err != nil {
		fmt.Println(err)
	}

	// Output:
	// [Add titles to episodes] move /tv/1x01.m4v -> /tv/1x01 - Pilot.m4v
	// [Add titles to episodes] move /tv/1x02.m4v -> /tv/1x02 - Next Episode.m4v
}
