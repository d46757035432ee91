package snapshot

// Route is the payload variant a snapshot is relayed as.
type Route string

// Routes in precedence order, see Precedence.
const (
	RouteText      Route = "text"
	RouteCaption   Route = "caption"
	RoutePhoto     Route = Route(MediaPhoto)
	RouteVideo     Route = Route(MediaVideo)
	RouteVoice     Route = Route(MediaVoice)
	RouteVideoNote Route = Route(MediaVideoNote)
	RouteAnimation Route = Route(MediaAnimation)
	RouteSticker   Route = Route(MediaSticker)
	RouteDocument  Route = Route(MediaDocument)
	RouteUnknown   Route = "unknown"
)

// Precedence is the ordered match table used by Route: the first route the
// snapshot satisfies wins. RouteUnknown is the fallback and is not listed.
var Precedence = []Route{
	RouteText,
	RouteCaption,
	RoutePhoto,
	RouteVideo,
	RouteVoice,
	RouteVideoNote,
	RouteAnimation,
	RouteSticker,
	RouteDocument,
}

// Route picks the payload variant for the snapshot.
func (s *Snapshot) Route() Route {
	for _, r := range Precedence {
		if s.matches(r) {
			return r
		}
	}
	return RouteUnknown
}

// MediaKind returns the attachment kind a media route resends.
func (r Route) MediaKind() (MediaKind, bool) {
	switch r {
	case RoutePhoto, RouteVideo, RouteVoice, RouteVideoNote, RouteAnimation, RouteSticker, RouteDocument:
		return MediaKind(r), true
	default:
		return "", false
	}
}

func (s *Snapshot) matches(r Route) bool {
	switch r {
	case RouteText:
		return s.Text != ""
	case RouteCaption:
		return s.Caption != ""
	}
	kind, ok := r.MediaKind()
	return ok && s.FileID(kind) != ""
}
