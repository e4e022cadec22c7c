package tweet

import (
	"strconv"
	"strings"
)

// avatarProxyURL is the third-party avatar proxy used whenever the provider
// gives us no profile image for an author.
const avatarProxyURL = "https://unavatar.io/twitter/"

// AvatarURL synthesizes an avatar URL for a handle via the avatar proxy.
// Leading "@" is stripped so cached and user-entered handles behave the same.
func AvatarURL(handle string) string {
	return avatarProxyURL + strings.TrimPrefix(strings.TrimSpace(handle), "@")
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
