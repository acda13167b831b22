/*
Package domain contains the core contracts of the arbor execution engine.

It defines the runtime Module abstraction driven by the scheduler, the App
interface through which running modules reach their application context, and
the Blueprint abstraction used to build fresh modules during navigation. The
package is kept free of I/O and persistence concerns.

# Key Entities

  - Module: a live node of a built tree. Its own effect (Run) is separate from the
    structural recursion into its children, which the scheduler owns.
  - App: per-run shared state (captured inputs, termination requests, navigation).
  - Blueprint: anything that can be built into a Module bound to an App.
  - LineReader: the injectable blocking input source.
*/
package domain
