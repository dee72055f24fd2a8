package signals

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"net/http"
)

// GravatarSignal reports whether the address has ever been used to create
// an avatar profile. A hit proves the address has been used somewhere; a
// miss proves nothing.
type GravatarSignal struct {
	Exists     bool   `json:"exists"`
	ProfileURL string `json:"profileUrl,omitempty"`
	Boost      int    `json:"boost"`
}

// checkAvatar performs the hash-addressed existence lookup. The avatar
// service identifies profiles by the MD5 of the lowercased address;
// requesting d=404 makes it answer 404 instead of a default image when no
// custom avatar exists.
func (s *Scorer) checkAvatar(ctx context.Context, email string) GravatarSignal {
	sum := md5.Sum([]byte(email))
	hash := hex.EncodeToString(sum[:])

	ctx, cancel := context.WithTimeout(ctx, s.opts.AvatarTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.opts.AvatarBaseURL+"/avatar/"+hash+"?d=404", nil)
	if err != nil {
		return GravatarSignal{}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.opts.Client.Do(req)
	if err != nil {
		return GravatarSignal{}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return GravatarSignal{}
	}
	return GravatarSignal{
		Exists:     true,
		ProfileURL: s.opts.AvatarBaseURL + "/" + hash,
		Boost:      15,
	}
}
