// Package native packs snapshot directories into tar.gz archives and
// encrypts them with OpenPGP symmetric encryption, without external tools.
//
// Encrypted files are standard OpenPGP messages (AES-256, iterated and
// salted S2K) and can be decrypted with `gpg --decrypt`.
package native
