package bot

import "strings"

// Command — разобранная команда /name@bot arg1 arg2.
type Command struct {
	Name    string
	Args    []string
	Mention string // Имя бота после @, если указано
}

// CommandParser разбирает команды. В группах Telegram добавляет к команде
// @имя_бота: команды для чужих ботов пропускаются.
type CommandParser struct {
	username string
}

func NewCommandParser() *CommandParser {
	return &CommandParser{}
}

// SetUsername задаёт имя бота (без @) для проверки упоминаний.
func (p *CommandParser) SetUsername(username string) {
	p.username = strings.ToLower(strings.TrimPrefix(username, "@"))
}

// Parse разбирает текст сообщения. ok = false, если это не команда
// или команда адресована другому боту.
func (p *CommandParser) Parse(text string) (Command, bool) {
	rest, found := strings.CutPrefix(strings.TrimSpace(text), "/")
	if !found {
		return Command{}, false
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return Command{}, false
	}

	name, mention, _ := strings.Cut(fields[0], "@")
	cmd := Command{
		Name:    strings.ToLower(name),
		Args:    fields[1:],
		Mention: mention,
	}
	if cmd.Name == "" {
		return Command{}, false
	}
	if mention != "" && p.username != "" && strings.ToLower(mention) != p.username {
		return Command{}, false
	}
	if len(cmd.Args) == 0 {
		cmd.Args = nil
	}
	return cmd, true
}
