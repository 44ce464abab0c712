// Package moderation implements the moderator overlay: pinning and
// unpinning identification candidates, the review-status flag, and the
// cached moderator-role check.
package moderation
