// internal/channels/definitions.go
package channels

// FieldType is the form control a channel field renders as.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldPassword FieldType = "password"
	FieldSelect   FieldType = "select"
)

// FieldOption is one choice of a select field.
type FieldOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field describes one configuration field of a channel.
type Field struct {
	Key         string        `json:"key"`
	Label       string        `json:"label"`
	Type        FieldType     `json:"type"`
	Placeholder string        `json:"placeholder,omitempty"`
	Options     []FieldOption `json:"options,omitempty"`
	Required    bool          `json:"required"`
}

// Definition describes a messaging channel the gateway can serve: its
// identity and the schema of its configuration form. Definitions are the
// channel counterpart of the official provider catalog.
type Definition struct {
	Type   string  `json:"type"`
	Name   string  `json:"name"`
	Icon   string  `json:"icon"`
	Fields []Field `json:"fields"`
}

var dmPolicyOptions = []FieldOption{
	{Value: "pairing", Label: "Pairing"},
	{Value: "open", Label: "Open"},
	{Value: "disabled", Label: "Disabled"},
}

var groupPolicyOptions = []FieldOption{
	{Value: "allowlist", Label: "Allowlist"},
	{Value: "open", Label: "Open"},
	{Value: "disabled", Label: "Disabled"},
}

// Definitions returns the built-in channel catalog.
func Definitions() []Definition {
	return []Definition{
		{
			Type: "telegram", Name: "Telegram", Icon: "✈️",
			Fields: []Field{
				{Key: "botToken", Label: "Bot Token", Type: FieldPassword, Placeholder: "123456:ABC-DEF...", Required: true},
				{Key: "userId", Label: "User ID", Type: FieldText, Required: true},
				{Key: "dmPolicy", Label: "DM Policy", Type: FieldSelect, Options: dmPolicyOptions},
				{Key: "groupPolicy", Label: "Group Policy", Type: FieldSelect, Options: groupPolicyOptions},
			},
		},
		{
			Type: "discord", Name: "Discord", Icon: "🎮",
			Fields: []Field{
				{Key: "botToken", Label: "Bot Token", Type: FieldPassword, Required: true},
				{Key: "testChannelId", Label: "Test Channel ID", Type: FieldText},
				{Key: "dmPolicy", Label: "DM Policy", Type: FieldSelect, Options: dmPolicyOptions},
			},
		},
		{
			Type: "slack", Name: "Slack", Icon: "💬",
			Fields: []Field{
				{Key: "botToken", Label: "Bot Token", Type: FieldPassword, Placeholder: "xoxb-...", Required: true},
				{Key: "appToken", Label: "App Token", Type: FieldPassword, Placeholder: "xapp-..."},
				{Key: "testChannelId", Label: "Test Channel ID", Type: FieldText},
			},
		},
		{
			Type: "feishu", Name: "Feishu", Icon: "📮",
			Fields: []Field{
				{Key: "appId", Label: "App ID", Type: FieldText, Required: true},
				{Key: "appSecret", Label: "App Secret", Type: FieldPassword, Required: true},
				{Key: "testChatId", Label: "Test Chat ID", Type: FieldText},
				{Key: "connectionMode", Label: "Connection Mode", Type: FieldSelect, Options: []FieldOption{
					{Value: "websocket", Label: "WebSocket"},
					{Value: "webhook", Label: "Webhook"},
				}},
				{Key: "domain", Label: "Domain", Type: FieldSelect, Options: []FieldOption{
					{Value: "feishu", Label: "Feishu"},
					{Value: "lark", Label: "Lark"},
				}},
			},
		},
		{
			Type: "whatsapp", Name: "WhatsApp", Icon: "📱",
			Fields: []Field{
				{Key: "dmPolicy", Label: "DM Policy", Type: FieldSelect, Options: dmPolicyOptions},
				{Key: "groupPolicy", Label: "Group Policy", Type: FieldSelect, Options: groupPolicyOptions},
			},
		},
		{
			Type: "wechat", Name: "WeChat", Icon: "💚",
			Fields: []Field{
				{Key: "appId", Label: "App ID", Type: FieldText},
				{Key: "appSecret", Label: "App Secret", Type: FieldPassword},
			},
		},
		{
			Type: "dingtalk", Name: "DingTalk", Icon: "🔔",
			Fields: []Field{
				{Key: "appKey", Label: "App Key", Type: FieldText},
				{Key: "appSecret", Label: "App Secret", Type: FieldPassword},
			},
		},
	}
}

// GetDefinition returns the definition for a channel type, or nil.
func GetDefinition(defs []Definition, channelType string) *Definition {
	for i := range defs {
		if defs[i].Type == channelType {
			return &defs[i]
		}
	}
	return nil
}

// SecretKeys returns the keys of the definition's password fields.
func (d *Definition) SecretKeys() map[string]bool {
	keys := make(map[string]bool)
	for _, f := range d.Fields {
		if f.Type == FieldPassword {
			keys[f.Key] = true
		}
	}
	return keys
}
