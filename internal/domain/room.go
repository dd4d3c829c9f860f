package domain

import (
	"fmt"
	"strings"
)

const (
	InviteSubject = "Join me, maybe?"
	inviteBody    = "You can join me in the conference using a Web browser at %s " +
		"or by using the freely available Sylk WebRTC client app at http://sylkserver.com"
)

type RoomName string

// Room is the conference being shown, identified by the remote identity URI.
type Room struct {
	URI  string
	Name RoomName
}

func NewRoom(uri string) Room {
	name, _, _ := strings.Cut(uri, "@")
	return Room{URI: uri, Name: RoomName(name)}
}

// CallURL is the public link other people can use to join.
func (r Room) CallURL(publicURL string) string {
	return strings.TrimRight(publicURL, "/") + "/conference/" + string(r.Name)
}

// EmailLink builds the mailto: link inviting someone to CallURL.
func (r Room) EmailLink(publicURL string) string {
	body := fmt.Sprintf(inviteBody, r.CallURL(publicURL))
	return "mailto:?subject=" + encodeURI(InviteSubject) + "&body=" + encodeURI(body)
}

const uriSafe = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789" +
	"-_.!~*'();/?:@&=+$,#"

// encodeURI escapes like a browser's encodeURI: URL punctuation is kept,
// everything else is percent-encoded byte by byte.
func encodeURI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(uriSafe, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}
