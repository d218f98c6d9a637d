package commands_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/comet/cmd/comet/commands"
	"go.trai.ch/comet/internal/adapters/telemetry"
	"go.trai.ch/comet/internal/app"
	"go.trai.ch/comet/internal/core/domain"
	"go.trai.ch/comet/internal/core/ports"
	"go.trai.ch/comet/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type nopLogger struct{}

func (nopLogger) Info(string) {}
func (nopLogger) Warn(string) {}
func (nopLogger) Error(error) {}

// memDownloader serves blobs from memory.
type memDownloader struct {
	content map[string][]byte
}

func (d *memDownloader) add(source string, content []byte) string {
	if d.content == nil {
		d.content = make(map[string][]byte)
	}
	d.content[source] = content
	return fmt.Sprintf("%016x", xxhash.Sum64(content))
}

func (d *memDownloader) Download(_ context.Context, source, dest string) (string, error) {
	content, ok := d.content[source]
	if !ok {
		return "", errors.New("unknown source: " + source)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return "", err
	}
	if err := os.WriteFile(dest, content, 0o600); err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(content)), nil
}

type cliFixture struct {
	cli  *commands.CLI
	root string
	out  *bytes.Buffer
}

func newCLIFixture(t *testing.T, ctrl *gomock.Controller, components ...domain.Component) *cliFixture {
	t.Helper()
	root := t.TempDir()

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(gomock.Any()).DoAndReturn(func(string) (*domain.Settings, error) {
		return &domain.Settings{
			Root:          root,
			SnapshotURL:   "https://example.com/components.json",
			Platform:      domain.Platform{OS: "linux", Arch: "amd64"},
			Parallelism:   1,
			FetchAttempts: 1,
		}, nil
	}).AnyTimes()

	downloader := &memDownloader{}
	for i := range components {
		for j := range components[i].Files {
			f := &components[i].Files[j]
			f.Checksum = downloader.add(f.Source, []byte("payload of "+components[i].ID))
		}
	}
	snapshot, err := domain.NewSnapshot(1, "rev-1", components)
	require.NoError(t, err)

	fetcher := mocks.NewMockSnapshotFetcher(ctrl)
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(snapshot, nil).AnyTimes()

	a := app.New(loader, nopLogger{}, downloader, telemetry.NewNoOp(),
		app.WithFetcherFactory(func(ports.Logger, int) ports.SnapshotFetcher {
			return fetcher
		}),
	)

	cli := commands.New(a)
	out := &bytes.Buffer{}
	cli.SetOutput(out)
	return &cliFixture{cli: cli, root: root, out: out}
}

func component(id string, version domain.Version, deps ...string) domain.Component {
	return domain.Component{
		ID:           id,
		Name:         strings.ToUpper(id[:1]) + id[1:],
		Version:      version,
		Dependencies: deps,
		Files: []domain.FileSpec{
			{Path: "bin/" + id, Source: "mem://" + id, Size: 1},
		},
	}
}

func TestInstall_Quiet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newCLIFixture(t, ctrl,
		component("base", "1.0.0"),
		component("tool", "2.0.0", "base"),
	)

	f.cli.SetArgs([]string{"install", "tool", "--quiet"})
	require.NoError(t, f.cli.Execute(context.Background()))

	for _, id := range []string{"base", "tool"} {
		_, err := os.Stat(filepath.Join(f.root, id, "bin", id))
		assert.NoError(t, err, id)
	}
}

func TestInstall_NoArgsShowsHelp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newCLIFixture(t, ctrl)
	f.cli.SetArgs([]string{"install"})
	require.NoError(t, f.cli.Execute(context.Background()))
	assert.Contains(t, f.out.String(), "install")
}

func TestRemove_PromptDeclined(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newCLIFixture(t, ctrl, component("base", "1.0.0"))

	f.cli.SetArgs([]string{"install", "base", "--quiet"})
	require.NoError(t, f.cli.Execute(context.Background()))

	// Flag values persist across Execute calls, reset quiet explicitly
	f.cli.SetInput(strings.NewReader("n\n"))
	f.cli.SetArgs([]string{"remove", "base", "--quiet=false"})
	err := f.cli.Execute(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAborted))

	// Still installed
	_, statErr := os.Stat(filepath.Join(f.root, "base"))
	assert.NoError(t, statErr)
}

func TestRemove_PromptConfirmed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newCLIFixture(t, ctrl, component("base", "1.0.0"))

	f.cli.SetArgs([]string{"install", "base", "--quiet"})
	require.NoError(t, f.cli.Execute(context.Background()))

	f.cli.SetInput(strings.NewReader("y\n"))
	f.cli.SetArgs([]string{"remove", "base", "--quiet=false"})
	require.NoError(t, f.cli.Execute(context.Background()))

	assert.Contains(t, f.out.String(), "To remove: base")
	_, statErr := os.Stat(filepath.Join(f.root, "base"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestUpdate_UpToDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newCLIFixture(t, ctrl, component("base", "1.0.0"))

	f.cli.SetArgs([]string{"install", "base", "--quiet"})
	require.NoError(t, f.cli.Execute(context.Background()))

	f.cli.SetArgs([]string{"update", "--quiet"})
	require.NoError(t, f.cli.Execute(context.Background()))
}

func TestList(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newCLIFixture(t, ctrl,
		component("base", "1.0.0"),
		component("tool", "2.0.0", "base"),
	)

	f.cli.SetArgs([]string{"install", "base", "--quiet"})
	require.NoError(t, f.cli.Execute(context.Background()))

	f.out.Reset()
	f.cli.SetArgs([]string{"list"})
	require.NoError(t, f.cli.Execute(context.Background()))

	output := f.out.String()
	assert.Contains(t, output, "STATUS")
	assert.Contains(t, output, "Installed")
	assert.Contains(t, output, "Not Installed")
	assert.Contains(t, output, "rev-1")
}

func TestList_ShowVersions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newCLIFixture(t, ctrl, component("base", "1.0.0"))

	f.cli.SetArgs([]string{"list", "--show-versions"})
	require.NoError(t, f.cli.Execute(context.Background()))

	output := f.out.String()
	assert.Contains(t, output, "LATEST")
	assert.Contains(t, output, "1.0.0")
}

func TestVersion(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newCLIFixture(t, ctrl)
	f.cli.SetArgs([]string{"version"})
	require.NoError(t, f.cli.Execute(context.Background()))
}
