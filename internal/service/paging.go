package service

// NoPage marks an absent previous or next page.
const NoPage = 0

// Window is the paging window of the records screen.
type Window struct {
	Page      int
	PageCount int
	PrevPage  int
	NextPage  int
}

// Paginate computes the paging window for count rows split into pages of
// perPage. PageCount is never below 1, the requested page is clamped into
// [1, PageCount] and PrevPage/NextPage are NoPage at the edges.
func Paginate(count, perPage, page int) Window {
	if perPage < 1 {
		perPage = 1
	}
	if count < 0 {
		count = 0
	}

	pageCount := (count + perPage - 1) / perPage
	if pageCount < 1 {
		pageCount = 1
	}

	if page < 1 {
		page = 1
	}
	if page > pageCount {
		page = pageCount
	}

	w := Window{
		Page:      page,
		PageCount: pageCount,
		PrevPage:  NoPage,
		NextPage:  NoPage,
	}
	if page > 1 {
		w.PrevPage = page - 1
	}
	if page < pageCount {
		w.NextPage = page + 1
	}
	return w
}

// Offset returns the row offset of the window's page.
func (w Window) Offset(perPage int) int {
	return (w.Page - 1) * perPage
}

// HasPrev reports whether a previous page exists.
func (w Window) HasPrev() bool { return w.PrevPage != NoPage }

// HasNext reports whether a next page exists.
func (w Window) HasNext() bool { return w.NextPage != NoPage }
