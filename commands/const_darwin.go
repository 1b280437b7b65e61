package commands

const (
	_etc = "/usr/local/etc/com.github.webexsheets"
	_var = "/usr/local/var/com.github.webexsheets"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"
)
