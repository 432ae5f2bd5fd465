// Package rbac implements role-based authorization over the closed
// three-role hierarchy OWNER > ADMIN > MEMBER.
//
// The comparison is a total order: Authorize allows an operation iff the
// actor's role meets the declared minimum. Two distinct roles are never
// treated as equal, and roles outside the closed set satisfy nothing.
// Authorize is a pure function, testable with no request context at all.
package rbac
