package crawler

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmylchreest/collegescout/pkg/fetcher"
)

// MaxDirectoryLinks caps how many college links one directory contributes.
const MaxDirectoryLinks = 50

// regionKeyword must appear in a directory link for it to be kept.
const regionKeyword = "karnataka"

// Directory is a college listing site.
type Directory struct {
	Name         string   `mapstructure:"name" yaml:"name" validate:"required"`
	URL          string   `mapstructure:"url" yaml:"url" validate:"required,url"`
	Selectors    []string `mapstructure:"selectors" yaml:"selectors" validate:"min=1"`
	NextSelector string   `mapstructure:"next_selector" yaml:"next_selector,omitempty"`
	MaxPages     int      `mapstructure:"max_pages" yaml:"max_pages,omitempty" validate:"gte=0"`
}

// DefaultDirectories are the listing sites crawled when none are configured.
var DefaultDirectories = []Directory{
	{
		Name:      "careers360",
		URL:       "https://www.careers360.com/colleges/list-of-colleges-in-karnataka",
		Selectors: []string{`a[href*="/colleges/"]`, ".college-name a"},
	},
	{
		Name:      "collegedunia",
		URL:       "https://www.collegedunia.com/karnataka-colleges",
		Selectors: []string{`a[href*="/college/"]`, ".cd-clg-name a"},
	},
	{
		Name:      "shiksha",
		URL:       "https://www.shiksha.com/college/karnataka-colleges-ctlg",
		Selectors: []string{`a[href*="/college/"]`, ".course-name a"},
	},
}

// selector builds the link selector for d's listing pages.
func (d Directory) selector() (*LinkSelector, error) {
	css := strings.Join(d.Selectors, ", ")
	if css == "" {
		css = "a[href]"
	}
	return NewLinkSelector(css, "", regionKeyword)
}

// Links fetches the directory listing, following pagination when configured,
// and returns up to MaxDirectoryLinks region links not present in skip.
func (d Directory) Links(ctx context.Context, f fetcher.Fetcher, opts fetcher.Options, skip Visited) ([]string, error) {
	ls, err := d.selector()
	if err != nil {
		return nil, fmt.Errorf("directory %s: %w", d.Name, err)
	}

	pages := max(d.MaxPages, 1)
	pager := NewPaginationSelector(d.NextSelector)
	queue := NewURLQueue(skip, MaxDirectoryLinks)

	page := d.URL
	for i := 0; i < pages && page != "" && !queue.Full(); i++ {
		content, err := f.Fetch(ctx, page, opts)
		if err != nil {
			if i == 0 {
				return nil, fmt.Errorf("directory %s: %w", d.Name, err)
			}
			break
		}

		links, err := ls.ExtractLinks(content.HTML, content.URL)
		if err != nil {
			return nil, fmt.Errorf("directory %s: %w", d.Name, err)
		}
		for _, link := range links {
			queue.Add(link)
		}

		next, ok := pager.FindNextPage(content.HTML, content.URL)
		if !ok || next == page {
			break
		}
		page = next
	}

	return queue.URLs(), nil
}
