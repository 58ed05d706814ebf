package hotkey

import (
	"fmt"
	"strings"
)

// Combo 解析后的快捷键：修饰键集合加一个主键
type Combo struct {
	Ctrl  bool
	Alt   bool
	Shift bool
	Win   bool
	Key   string
}

var modifierAliases = map[string]string{
	"commandorcontrol": "ctrl",
	"cmdorctrl":        "ctrl",
	"control":          "ctrl",
	"ctrl":             "ctrl",
	"command":          "ctrl",
	"cmd":              "ctrl",
	"alt":              "alt",
	"option":           "alt",
	"shift":            "shift",
	"super":            "win",
	"meta":             "win",
	"win":              "win",
}

var keyAliases = map[string]string{
	"escape": "esc",
	"return": "enter",
}

// 主键的虚拟键码
var keyCodes = map[string]uint32{
	"space": 0x20, "tab": 0x09, "enter": 0x0D, "esc": 0x1B,
	"insert": 0x2D, "delete": 0x2E, "home": 0x24, "end": 0x23,
	"f1": 0x70, "f2": 0x71, "f3": 0x72, "f4": 0x73,
	"f5": 0x74, "f6": 0x75, "f7": 0x76, "f8": 0x77,
	"f9": 0x78, "f10": 0x79, "f11": 0x7A, "f12": 0x7B,
}

func init() {
	for c := 'a'; c <= 'z'; c++ {
		keyCodes[string(c)] = uint32('A' + (c - 'a'))
	}
	for c := '0'; c <= '9'; c++ {
		keyCodes[string(c)] = uint32(c)
	}
}

// Parse 解析 "CommandOrControl+Shift+V" 形式的快捷键
func Parse(accel string) (Combo, error) {
	var combo Combo
	if strings.TrimSpace(accel) == "" {
		return combo, fmt.Errorf("快捷键为空")
	}

	for _, part := range strings.Split(accel, "+") {
		token := strings.ToLower(strings.TrimSpace(part))
		if token == "" {
			return Combo{}, fmt.Errorf("快捷键格式错误: %q", accel)
		}
		if mod, ok := modifierAliases[token]; ok {
			switch mod {
			case "ctrl":
				combo.Ctrl = true
			case "alt":
				combo.Alt = true
			case "shift":
				combo.Shift = true
			case "win":
				combo.Win = true
			}
			continue
		}
		if alias, ok := keyAliases[token]; ok {
			token = alias
		}
		if _, ok := keyCodes[token]; !ok {
			return Combo{}, fmt.Errorf("不支持的按键 %q: %q", part, accel)
		}
		if combo.Key != "" {
			return Combo{}, fmt.Errorf("快捷键只能包含一个主键: %q", accel)
		}
		combo.Key = token
	}

	if combo.Key == "" {
		return Combo{}, fmt.Errorf("快捷键缺少主键: %q", accel)
	}
	if !combo.Ctrl && !combo.Alt && !combo.Win {
		return Combo{}, fmt.Errorf("快捷键需要包含 Ctrl、Alt 或 Win: %q", accel)
	}
	return combo, nil
}

// KeyCode 主键的虚拟键码
func (c Combo) KeyCode() uint32 {
	return keyCodes[c.Key]
}

// Modifiers 当前按下的修饰键状态
type Modifiers struct {
	Ctrl, Alt, Shift, Win bool
}

// Matches 主键按下时修饰键状态与快捷键完全一致
func (c Combo) Matches(vk uint32, mods Modifiers) bool {
	return vk == c.KeyCode() &&
		mods.Ctrl == c.Ctrl &&
		mods.Alt == c.Alt &&
		mods.Shift == c.Shift &&
		mods.Win == c.Win
}

func (c Combo) String() string {
	var parts []string
	if c.Ctrl {
		parts = append(parts, "Ctrl")
	}
	if c.Alt {
		parts = append(parts, "Alt")
	}
	if c.Shift {
		parts = append(parts, "Shift")
	}
	if c.Win {
		parts = append(parts, "Win")
	}
	parts = append(parts, strings.ToUpper(c.Key))
	return strings.Join(parts, "+")
}
