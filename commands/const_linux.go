package commands

const (
	_etc = "/usr/local/etc/webexsheets"
	_var = "/usr/local/var/webexsheets"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"
)
