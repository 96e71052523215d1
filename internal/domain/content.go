package domain

import "fmt"

// ContentKind identifies the type of devotional content an item carries.
type ContentKind string

const (
	KindPrayer    ContentKind = "prayer"
	KindScripture ContentKind = "scripture"
	KindWord      ContentKind = "word"
)

// VideoRef points at a remotely hosted background video for a content item.
type VideoRef struct {
	URI       string
	Thumbnail string
}

// Validate checks that the reference is usable.
func (v *VideoRef) Validate() error {
	if v.URI == "" {
		return fmt.Errorf("%w: video reference has no URI", ErrInvalidContent)
	}
	return nil
}

// ContentItem is a single piece of devotional content. Video is optional;
// items without one play no background video.
type ContentItem struct {
	ID    string
	Kind  ContentKind
	Title string
	Video *VideoRef
}

// HasVideo reports whether the item carries a playable video reference.
func (c *ContentItem) HasVideo() bool {
	return c.Video != nil && c.Video.URI != ""
}

// Validate checks the item at the load boundary.
func (c *ContentItem) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: content item has no ID", ErrInvalidContent)
	}
	if c.Video != nil {
		if err := c.Video.Validate(); err != nil {
			return err
		}
	}
	return nil
}
