package sandbox

import "github.com/dop251/goja"

// The prelude rewires the Promise surface inside the VM so every promise the
// submitted program creates or chains reports its lifecycle through the hooks
// binding. It runs before the submission, in the same global scope; the
// binding global is withdrawn immediately afterwards so submitted code cannot
// reach it.
//
// goja schedules then/catch reactions on its internal job queue and drains
// that queue whenever the JS call stack empties, so the wrapped callbacks run
// at true microtask positions. Reactions the engine creates internally for
// await continuations bypass the prototype surface and are not individually
// traced.
const preludeSource = `(function (global, hooks) {
  'use strict';

  var NativePromise = global.Promise;
  var nativeThen = NativePromise.prototype.then;
  var ids = new WeakMap();

  function idOf(p) {
    var id = ids.get(p);
    if (id === undefined) {
      id = hooks.init();
      ids.set(p, id);
    }
    return id;
  }

  function TracedPromise(executor) {
    var id = hooks.init();
    var p = new NativePromise(function (resolve, reject) {
      executor(
        function (value) { hooks.resolve(id); resolve(value); },
        function (reason) { reject(reason); }
      );
    });
    ids.set(p, id);
    return p;
  }

  TracedPromise.prototype = NativePromise.prototype;
  TracedPromise.resolve = function (value) {
    var p = NativePromise.resolve(value);
    hooks.resolve(idOf(p));
    return p;
  };
  TracedPromise.reject = function (reason) {
    var p = NativePromise.reject(reason);
    idOf(p);
    return p;
  };
  TracedPromise.all = NativePromise.all.bind(NativePromise);
  TracedPromise.allSettled = NativePromise.allSettled.bind(NativePromise);
  TracedPromise.race = NativePromise.race.bind(NativePromise);

  NativePromise.prototype.then = function (onFulfilled, onRejected) {
    idOf(this);
    var id = hooks.init();

    function wrap(fn) {
      if (typeof fn !== 'function') return fn;
      return function (value) {
        hooks.before(id);
        try {
          var result = fn(value);
          hooks.resolve(id);
          return result;
        } finally {
          hooks.after(id);
        }
      };
    }

    var next = nativeThen.call(this, wrap(onFulfilled), wrap(onRejected));
    ids.set(next, id);
    return next;
  };

  NativePromise.prototype['catch'] = function (onRejected) {
    return this.then(undefined, onRejected);
  };

  NativePromise.prototype['finally'] = function (onFinally) {
    return this.then(
      function (value) { onFinally(); return value; },
      function (reason) { onFinally(); throw reason; }
    );
  };

  global.Promise = TracedPromise;
})(this, __lifecycle_hooks);`

var preludeProgram = goja.MustCompile("prelude.js", preludeSource, false)
