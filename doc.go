// Command tactbot is a Telegram bot that compiles Tact smart contracts.
//
// Users submit a contract either inline, with the /build command followed by
// the source (optionally inside a ``` block), or by uploading a .tact file.
// Each submission is written to a fresh in-memory project and handed to the
// compiler together with the standard library, which is loaded once from the
// configured directory. The bot replies with the verdict, pointing at the
// offending line and column when the compiler reports one. The /history
// command lists the latest builds of the chat.
//
// Tactbot looks for a configuration file at "$HOME/lib/tactbot/config". It is
// in JSON format and is described in config.go. An alternative configuration
// file can be specified with the -config command line flag. The bot token may
// also be given through the BOT_TOKEN environment variable, in which case the
// configuration file is optional.
//
// Build verdicts are persisted in a Bolt database stored at
// "$HOME/lib/tactbot/history.bolt". Logs are stored in
// "$HOME/lib/tactbot/log".
//
// If listen_addr is configured, tactbot also serves a read-only 9P file
// system with a directory per chat and a file per build holding its report:
//
//	9p -a localhost:5640 ls 123456789
//	9p -a localhost:5640 read 123456789/1700000000-42.txt
package main // import "github.com/nicolagi/tactbot"
