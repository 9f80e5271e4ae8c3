package domain

// Article is the readable content extracted from a web page.
type Article struct {
	URL   string
	Title string
	Text  string
}

// Summary is a summarized page as presented to the user. Title may carry a
// translated rendition for display while the cached source-language title
// stays intact.
type Summary struct {
	PageKey string
	Title   string
	Points  []string
}

type Feed struct {
	URL   string
	Title string
}

type UserFeed struct {
	ID     int64
	UserID int64
	URL    string
	Title  string
}

type Post struct {
	Title     string
	URL       string
	FeedID    int64
	FeedTitle string
	FeedURL   string
}

type UserSettings struct {
	UserID            int64
	AutoDigestHourUTC int64
	Language          string
}

type UserPosts struct {
	UserID int64
	Posts  []Post
}
