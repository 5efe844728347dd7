package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/robby/pulsedump/internal/assets"
	"github.com/robby/pulsedump/internal/domain"
	"github.com/robby/pulsedump/internal/fsutil"
	"github.com/sirupsen/logrus"
)

// URLResolver resolves an embedded image URL to its final fetchable form.
type URLResolver interface {
	Resolve(ctx context.Context, rawURL string) string
}

// Fetcher downloads a URL to a local path, reporting the outcome without
// ever raising.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) assets.Outcome
}

// Builder renders one item graph into Markdown fragments, downloading every
// attached or embedded file along the way. Individual download failures are
// logged and the corresponding reference is omitted from the document; they
// never abort the build.
type Builder struct {
	resolver URLResolver
	fetcher  Fetcher
	log      logrus.FieldLogger

	// Now supplies the export timestamp in the header. Overridable in tests.
	Now func() time.Time
}

// NewBuilder creates a Builder. A nil log falls back to the standard logger.
func NewBuilder(resolver URLResolver, fetcher Fetcher, log logrus.FieldLogger) *Builder {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Builder{
		resolver: resolver,
		fetcher:  fetcher,
		log:      log,
		Now:      time.Now,
	}
}

// Build walks the item tree in a single pass and appends the document
// fragments to the manifest: header, metadata, column values, attachments,
// then each update with its embedded images, attachments, and replies.
func (b *Builder) Build(ctx context.Context, item *domain.Item, m *Manifest) {
	b.buildHeader(item, m)
	b.buildColumnValues(item, m)
	b.buildAttachments(ctx, item, m)

	if len(item.Updates) == 0 {
		return
	}

	m.Append("## Comments & Updates\n")
	for i, update := range item.Updates {
		b.buildUpdate(ctx, i, update, m)
	}
}

func (b *Builder) buildHeader(item *domain.Item, m *Manifest) {
	title := item.Name
	if title == "" {
		title = "Untitled Task"
	}

	m.Append(fmt.Sprintf("# %s\n", title))
	m.Append(fmt.Sprintf("*Exported from Monday.com on %s*\n", b.Now().Format(displayLayout)))
	m.Append("---\n")

	m.Append("## Task Information\n")
	field := func(label, value string) {
		if value != "" {
			m.Append(fmt.Sprintf("- **%s:** %s", label, value))
		}
	}
	field("Board", item.Board.Name)
	field("Workspace", item.Board.Workspace)
	field("Group", item.Group.Title)
	field("Status", item.State)
	field("Created", item.CreatedAt)
	field("Updated", item.UpdatedAt)
	if item.Creator.Name != "" {
		creator := item.Creator.Name
		if item.Creator.Email != "" {
			creator = fmt.Sprintf("%s (%s)", creator, item.Creator.Email)
		}
		field("Creator", creator)
	}
	m.Append("\n")
}

func (b *Builder) buildColumnValues(item *domain.Item, m *Manifest) {
	if len(item.ColumnValues) == 0 {
		return
	}

	m.Append("## Fields\n")
	for _, col := range item.ColumnValues {
		if col.Text == "" {
			continue
		}
		m.Append(fmt.Sprintf("- **%s:** %s", columnLabel(col.Type), col.Text))
	}
	m.Append("\n")
}

// columnLabel picks the display label for a column value by its type tag.
func columnLabel(colType string) string {
	switch colType {
	case domain.ColumnTypePeople:
		return "Assigned to"
	case domain.ColumnTypeStatus:
		return "Status"
	case domain.ColumnTypeDate:
		return "Date"
	case "":
		return "Text"
	default:
		return strings.ToUpper(colType[:1]) + colType[1:]
	}
}

func (b *Builder) buildAttachments(ctx context.Context, item *domain.Item, m *Manifest) {
	if len(item.Assets) == 0 {
		return
	}

	m.Append("## Attachments\n")
	for i, asset := range item.Assets {
		name := asset.Name
		if name == "" {
			name = fmt.Sprintf("attachment_%d", i)
		}

		url := assets.ResolveAsset(asset)
		if url == "" {
			continue
		}

		filename := fsutil.SanitizeFilename(name)
		dest, rel := m.ImagePath(filename)

		outcome := b.fetcher.Fetch(ctx, url, dest)
		if !outcome.Downloaded {
			b.log.Warnf("skipping attachment %s: %s", name, outcome.Reason)
			continue
		}
		m.MarkDownloaded(filename)
		b.log.Infof("downloaded attachment %s", name)

		if domain.IsImageFilename(name) {
			m.Append(fmt.Sprintf("![%s](%s)", name, rel))
		} else if asset.Size > 0 {
			m.Append(fmt.Sprintf("- [%s](%s) (%s)", name, rel, humanize.Bytes(uint64(asset.Size))))
		} else {
			m.Append(fmt.Sprintf("- [%s](%s)", name, rel))
		}
	}
	m.Append("\n")
}

func (b *Builder) buildUpdate(ctx context.Context, idx int, update domain.Update, m *Manifest) {
	m.Append(fmt.Sprintf("### %s\n", headerLine(update.Creator, FormatTimestamp(update.CreatedAt))))

	// Embedded images are appended to the plain-text body under generated
	// names so the text reads in order even though originals lived in HTML.
	text := update.TextBody
	for imgIdx, rawURL := range assets.ExtractImageURLs(update.Body) {
		filename := fmt.Sprintf("comment_%d_%d.png", idx, imgIdx)
		if rel, ok := b.fetchEmbedded(ctx, rawURL, filename, m); ok {
			text += fmt.Sprintf("\n\n![Image](%s)", rel)
		}
	}

	if text != "" {
		m.Append(strings.TrimSpace(text))
		m.Append("\n")
	}

	for _, asset := range update.Assets {
		url := assets.ResolveAsset(asset)
		if url == "" {
			continue
		}

		name := asset.Name
		if name == "" {
			name = "file"
		}
		filename := fmt.Sprintf("update_%d_%s", idx, fsutil.SanitizeFilename(name))
		dest, rel := m.ImagePath(filename)

		outcome := b.fetcher.Fetch(ctx, url, dest)
		if !outcome.Downloaded {
			b.log.Warnf("skipping update attachment %s: %s", name, outcome.Reason)
			continue
		}
		m.MarkDownloaded(filename)
		b.log.Infof("downloaded update attachment %s", name)

		if domain.IsImageFilename(name) {
			m.Append(fmt.Sprintf("\n![%s](%s)\n", name, rel))
		} else {
			m.Append(fmt.Sprintf("\nAttachment: [%s](%s)\n", name, rel))
		}
	}

	if len(update.Replies) > 0 {
		m.Append("\n#### Replies:\n")
		for replyIdx, reply := range update.Replies {
			b.buildReply(ctx, idx, replyIdx, reply, m)
		}
	}

	m.Append("---\n")
}

func (b *Builder) buildReply(ctx context.Context, updateIdx, replyIdx int, reply domain.Reply, m *Manifest) {
	m.Append(fmt.Sprintf("\n**↳ %s**\n", headerLine(reply.Creator, FormatTimestamp(reply.CreatedAt))))

	text := reply.TextBody
	for imgIdx, rawURL := range assets.ExtractImageURLs(reply.Body) {
		filename := fmt.Sprintf("reply_%d_%d_%d.png", updateIdx, replyIdx, imgIdx)
		if rel, ok := b.fetchEmbedded(ctx, rawURL, filename, m); ok {
			text += fmt.Sprintf("\n\n![Image](%s)", rel)
		}
	}

	if text == "" {
		return
	}

	// Replies are quoted by indenting every non-empty line two spaces.
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if strings.TrimSpace(line) != "" {
			m.Append("  " + line)
		}
	}
	m.Append("")
}

// fetchEmbedded resolves and downloads one embedded image URL to a
// generated filename, returning the relative reference on success.
func (b *Builder) fetchEmbedded(ctx context.Context, rawURL, filename string, m *Manifest) (string, bool) {
	resolved := b.resolver.Resolve(ctx, rawURL)
	dest, rel := m.ImagePath(filename)

	outcome := b.fetcher.Fetch(ctx, resolved, dest)
	if !outcome.Downloaded {
		b.log.Warnf("skipping embedded image %s: %s", filename, outcome.Reason)
		return "", false
	}

	m.MarkDownloaded(filename)
	b.log.Infof("downloaded embedded image %s", filename)
	return rel, true
}

// headerLine joins a creator name and timestamp, dropping whichever is
// absent instead of rendering a placeholder.
func headerLine(creator, ts string) string {
	switch {
	case creator == "":
		return ts
	case ts == "":
		return creator
	default:
		return creator + " - " + ts
	}
}
