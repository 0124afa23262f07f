package bot

import t "github.com/mymmrac/telego"

type botInfo struct {
	ID        int64
	Username  string
	FirstName string
	IsBot     bool
}

func botInfoFromUser(user *t.User) botInfo {
	if user == nil {
		return botInfo{}
	}

	return botInfo{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		IsBot:     user.IsBot,
	}
}
