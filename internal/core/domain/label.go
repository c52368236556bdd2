package domain

// Label renders the transfer's recipient handle for list display,
// masking all but the tail of the raw handle.
func (t Transfer) Label() string {
	switch t.Channel {
	case ChannelBankAccount:
		handle := maskTail(t.AccountNo, 4)
		if t.BankCode != "" {
			handle = t.BankCode + " " + handle
		}
		if t.RecipientName != "" {
			return t.RecipientName + " (" + handle + ")"
		}
		return handle
	case ChannelMobileNumber:
		handle := maskTail(t.MobileNumber, 4)
		if t.RecipientName != "" {
			return t.RecipientName + " (" + handle + ")"
		}
		return handle
	default:
		return t.RecipientName
	}
}

func maskTail(s string, keep int) string {
	if len(s) <= keep {
		return s
	}
	return "***" + s[len(s)-keep:]
}
