package pdf

import "fmt"

// Info holds document-level metadata.
type Info struct {
	Version string
	Pages   int
	Title   string
	Author  string
}

// Info returns the document's PDF version, page count, and the
// optional title and author from the info dictionary.
func (d *Document) Info() (Info, error) {
	info := Info{
		Version: d.reader.Version().String(),
		Pages:   d.pages,
	}
	dict, err := d.reader.GetInfo()
	if err != nil {
		return Info{}, fmt.Errorf("reading info dictionary: %w", err)
	}
	if dict != nil {
		if title, ok := dict.GetString("Title"); ok {
			info.Title = string(title)
		}
		if author, ok := dict.GetString("Author"); ok {
			info.Author = string(author)
		}
	}
	return info, nil
}

// EmbeddedImageCount returns the number of decodable image XObjects in
// the page's resources.
func (d *Document) EmbeddedImageCount(pageIndex int) (int, error) {
	page, err := d.page(pageIndex)
	if err != nil {
		return 0, err
	}
	images, err := d.reader.ExtractPageImages(page)
	if err != nil {
		return 0, err
	}
	return len(images), nil
}
