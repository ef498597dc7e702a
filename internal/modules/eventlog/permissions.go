package eventlog

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// permissionNames lists the role permissions reported on role updates, in display order.
var permissionNames = []struct {
	name string
	bit  int64
}{
	{"create_instant_invite", 1 << 0},
	{"kick_members", 1 << 1},
	{"ban_members", 1 << 2},
	{"administrator", 1 << 3},
	{"manage_channels", 1 << 4},
	{"manage_guild", 1 << 5},
	{"add_reactions", 1 << 6},
	{"view_audit_log", 1 << 7},
	{"view_channel", 1 << 10},
	{"send_messages", 1 << 11},
	{"manage_messages", 1 << 13},
	{"embed_links", 1 << 14},
	{"attach_files", 1 << 15},
	{"read_message_history", 1 << 16},
	{"mention_everyone", 1 << 17},
	{"connect", 1 << 20},
	{"speak", 1 << 21},
	{"mute_members", 1 << 22},
	{"move_members", 1 << 24},
	{"change_nickname", 1 << 26},
	{"manage_nicknames", 1 << 27},
	{"manage_roles", 1 << 28},
	{"manage_webhooks", 1 << 29},
	{"manage_threads", 1 << 34},
	{"moderate_members", 1 << 40},
}

func permissionChanges(before, after int64) []*discordgo.MessageEmbedField {
	if before == after {
		return nil
	}
	var fields []*discordgo.MessageEmbedField
	for _, perm := range permissionNames {
		was := before&perm.bit != 0
		is := after&perm.bit != 0
		if was == is {
			continue
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Permission: " + perm.name,
			Value:  fmt.Sprintf("%t -> %t", was, is),
			Inline: true,
		})
	}
	return fields
}
