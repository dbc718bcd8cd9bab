/*

Public Dependency type information.

This sub-package contains the types needed to implement an external
dependency as used by this library, plus the flattened result structs the
built-in github queries return.

It is a sub-package as the query implementations live in an internal/
package; keeping the interface public lets callers supply their own
resources without waiting on that internal API to settle.

*/
package dep
