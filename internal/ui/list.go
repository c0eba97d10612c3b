package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/fax1015/mosu-cli/internal/models"
	"github.com/fax1015/mosu-cli/internal/shared"
)

var _ list.Item = mapListItem{}

// mapListItem wraps [models.Item] to implement [list.Item].
type mapListItem struct {
	item *models.Item
}

func (i mapListItem) FilterValue() string {
	meta := i.item.Metadata()
	return fmt.Sprintf("%s %s %s", meta.Title, meta.Artist, meta.Creator)
}

func (i mapListItem) Title() string {
	return i.item.DisplayName()
}

func (i mapListItem) Description() string {
	desc := fmt.Sprintf("%s • %s • %s",
		i.item.Metadata().Creator,
		shared.FormatDuration(i.item.DurationMS()),
		shared.StatusString(i.item.Done()),
	)
	if i.item.Tags() != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.item.Tags())
	}
	return desc
}
