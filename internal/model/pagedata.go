package model

// PageData is the context every layout executes with.
type PageData struct {
	Site *Site
	Page *Page
	// Results lists the posts an archive page shows.
	Results []*Page
}
