// Package trash implements a recoverable holding area for removed files,
// laid out as a freedesktop.org Trash directory:
//
//	$XDG_DATA_HOME/Trash/files/<name>             the trashed entry
//	$XDG_DATA_HOME/Trash/info/<name>.trashinfo    where it came from, and when
//
// The info file is created first (exclusively, which reserves the name) and
// the entry moved second, so an interrupted Put never loses the record of
// where a trashed file belongs. Desktop file managers read the same layout.
package trash
