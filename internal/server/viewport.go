package server

import "github.com/mssola/useragent"

// Default viewports used until the page reports its real size.
const (
	desktopWidth  = 1920
	desktopHeight = 1080
	mobileWidth   = 390
	mobileHeight  = 844
)

// viewportHint guesses the window size from the User-Agent header.
func viewportHint(userAgent string) (width, height int) {
	if userAgent == "" {
		return desktopWidth, desktopHeight
	}
	ua := useragent.New(userAgent)
	if ua.Mobile() && !ua.Bot() {
		return mobileWidth, mobileHeight
	}
	return desktopWidth, desktopHeight
}
