package css

import "strings"

func (r *Root) write(sb *strings.Builder) {
	writeChildren(sb, &r.block)
	sb.WriteString(r.After)
}

func (r *Rule) write(sb *strings.Builder) {
	sb.WriteString(r.Before)
	sb.WriteString(r.Selector)
	sb.WriteString(r.Between)
	sb.WriteByte('{')
	writeChildren(sb, &r.block)
	sb.WriteString(r.After)
	sb.WriteByte('}')
}

func (a *AtRule) write(sb *strings.Builder) {
	sb.WriteString(a.Before)
	sb.WriteByte('@')
	sb.WriteString(a.Name)
	sb.WriteString(a.AfterName)
	sb.WriteString(a.Params)
	sb.WriteString(a.Between)
	switch {
	case a.HasBlock:
		sb.WriteByte('{')
		writeChildren(sb, &a.block)
		sb.WriteString(a.After)
		sb.WriteByte('}')
	case a.Semicolon:
		sb.WriteByte(';')
	}
}

func (d *Declaration) write(sb *strings.Builder) {
	sb.WriteString(d.Before)
	sb.WriteString(d.Prop)
	sb.WriteString(d.Between)
	sb.WriteString(d.Value)
	sb.WriteString(d.AfterValue)
	if d.Semicolon {
		sb.WriteByte(';')
	}
}

func (c *Comment) write(sb *strings.Builder) {
	sb.WriteString(c.Before)
	sb.WriteString(c.Text)
}

func writeChildren(sb *strings.Builder, b *block) {
	for _, n := range b.nodes {
		n.write(sb)
	}
}
