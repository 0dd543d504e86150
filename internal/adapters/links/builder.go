// Package links builds canonical absolute URLs for application
// resources.
package links

import (
	"net/url"

	"eventer/internal/domain"
)

type builder struct {
	host string
}

// NewBuilder returns a URLBuilder that roots every link at
// https://<host>. The host is the same mailing host used in calendar
// uids.
func NewBuilder(host string) domain.URLBuilder {
	return &builder{host: host}
}

func (b *builder) EventURL(event *domain.Event) string {
	u := url.URL{
		Scheme: "https",
		Host:   b.host,
		Path:   "/events/" + event.Slug,
	}
	return u.String()
}
