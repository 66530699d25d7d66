// Package password provides Argon2id password hashing in PHC string format.
package password
